package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/value"
)

func TestDisassembleChunk(t *testing.T) {
	c := value.NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.WriteOp(bytecode.OpConstant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(bytecode.OpReturn, 1)

	var buf bytes.Buffer
	DisassembleChunk(&buf, c, "test")

	out := buf.String()
	require.Contains(t, out, "== test ==")
	require.Contains(t, out, "OP_CONSTANT")
	require.Contains(t, out, "OP_RETURN")
}

func TestDisassembleJumpInstruction(t *testing.T) {
	c := value.NewChunk()
	c.WriteOp(bytecode.OpJump, 1)
	c.Write(0, 1)
	c.Write(3, 1)
	c.WriteOp(bytecode.OpReturn, 1)

	var buf bytes.Buffer
	DisassembleChunk(&buf, c, "jumps")
	require.Contains(t, buf.String(), "OP_JUMP")
}
