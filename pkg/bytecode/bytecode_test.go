package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "OP_CONSTANT", OpConstant.String())
	require.Equal(t, "OP_RETURN", OpReturn.String())
	require.Equal(t, "OP_UNKNOWN", Opcode(255).String())
}

func TestOpcodeOperandBytes(t *testing.T) {
	require.Equal(t, 1, OpConstant.OperandBytes())
	require.Equal(t, 1, OpGetLocal.OperandBytes())
	require.Equal(t, 1, OpCall.OperandBytes())
	require.Equal(t, 2, OpJump.OperandBytes())
	require.Equal(t, 2, OpJumpIfFalse.OperandBytes())
	require.Equal(t, 2, OpLoop.OperandBytes())
	require.Equal(t, 0, OpPop.OperandBytes())
	require.Equal(t, 0, OpReturn.OperandBytes())
}
