package compiler

import (
	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/value"
)

func (p *Parser) emitByte(b byte) {
	p.chunk().Write(b, p.prev.Line)
}

func (p *Parser) emitBytes(b1, b2 byte) {
	p.emitByte(b1)
	p.emitByte(b2)
}

func (p *Parser) emitOp(op bytecode.Opcode) { p.emitByte(byte(op)) }

// emitJump writes instruction followed by a two-byte placeholder offset
// and returns the offset of the placeholder's first byte, to be filled in
// later by patchJump once the jump target is known.
func (p *Parser) emitJump(instruction bytecode.Opcode) int {
	p.emitOp(instruction)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.chunk().Code) - 2
}

// patchJump backfills the two-byte operand at offset with the distance
// from just past it to the current end of the chunk.
func (p *Parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
	}
	p.chunk().Code[offset] = byte((jump >> 8) & 0xff)
	p.chunk().Code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits OP_LOOP with an offset that jumps back to loopStart.
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(bytecode.OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
	}
	p.emitByte(byte((offset >> 8) & 0xff))
	p.emitByte(byte(offset & 0xff))
}

// makeConstant adds val to the current chunk's constant pool and returns
// its index as a byte, erroring if the chunk already has 256 constants.
func (p *Parser) makeConstant(val value.Value) byte {
	idx := p.chunk().AddConstant(val)
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitConstant(val value.Value) {
	p.emitBytes(byte(bytecode.OpConstant), p.makeConstant(val))
}
