// Package debug implements ember's bytecode disassembler, ported from
// original_source/debug.c's disassemble_chunk/disassemble_instruction.
//
// The teacher's pkg/vm/debugger.go additionally wired this up to an
// interactive breakpoint stepper and pkg/bytecode/format.go's binary
// on-disk chunk format; neither survives here. Spec §6 rules out any
// persisted bytecode format outright ("No persisted state: no on-disk
// formats"), and the spec's two invocation forms (REPL, run-file) define
// no debugger command surface, so only the pure disassembly half — useful
// on its own for tests and for a future -disassemble flag — is kept.
package debug

import (
	"fmt"
	"io"

	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/value"
)

// DisassembleChunk writes a human-readable listing of every instruction
// in c to w, headed by name.
func DisassembleChunk(w io.Writer, c *value.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes the single instruction at offset to w and
// returns the offset of the following instruction.
func DisassembleInstruction(w io.Writer, c *value.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := bytecode.Opcode(c.Code[offset])
	switch op {
	case bytecode.OpConstant:
		return constantInstruction(w, op, c, offset)
	case bytecode.OpGetLocal, bytecode.OpSetLocal, bytecode.OpCall:
		return byteInstruction(w, op, c, offset)
	case bytecode.OpGetGlobal, bytecode.OpDefineGlobal, bytecode.OpSetGlobal:
		return constantInstruction(w, op, c, offset)
	case bytecode.OpJump, bytecode.OpJumpIfFalse:
		return jumpInstruction(w, op, 1, c, offset)
	case bytecode.OpLoop:
		return jumpInstruction(w, op, -1, c, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op bytecode.Opcode, offset int) int {
	fmt.Fprintln(w, op.String())
	return offset + 1
}

func byteInstruction(w io.Writer, op bytecode.Opcode, c *value.Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op.String(), slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op bytecode.Opcode, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op.String(), idx, c.Constants[idx].String())
	return offset + 2
}

func jumpInstruction(w io.Writer, op bytecode.Opcode, sign int, c *value.Chunk, offset int) int {
	jump := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op.String(), offset, offset+3+sign*jump)
	return offset + 3
}
