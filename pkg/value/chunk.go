package value

import "github.com/kristofer/ember/pkg/bytecode"

// Chunk is a function body: a byte stream of opcodes and operands, a
// parallel line table for diagnostics, and the pool of constants those
// opcodes index into. This is the Go rendering of original_source/chunk.c.
// Code, Lines and Constants grow with plain append, not clox's
// GROW_ARRAY doubling from a floor of 8; the compiler's jump-patch
// arithmetic (current-offset-2, written back into Code) only needs Code to
// be a flat byte buffer indexed by offset, which a Go slice is.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// NewChunk returns an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends a single byte (an opcode or an operand byte) to the chunk,
// recording line as the source line it originated from.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op bytecode.Opcode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends val to the constant pool and returns its index.
// Callers must check the index fits in a byte (spec's 256-constant-per-
// chunk limit) before emitting an OpConstant referencing it.
func (c *Chunk) AddConstant(val Value) int {
	c.Constants = append(c.Constants, val)
	return len(c.Constants) - 1
}
