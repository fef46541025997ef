package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/value"
)

func testIntern() InternFunc {
	seen := map[string]*value.ObjString{}
	return func(chars string) *value.ObjString {
		if s, ok := seen[chars]; ok {
			return s
		}
		s := value.NewObjString(chars, value.HashString(chars))
		seen[chars] = s
		return s
	}
}

func TestCompileSimpleExpression(t *testing.T) {
	fn, err := Compile(`print 1 + 2;`, testIntern())
	require.NoError(t, err)
	require.NotNil(t, fn)

	ops := opcodesOf(fn.Chunk)
	require.Contains(t, ops, bytecode.OpAdd)
	require.Contains(t, ops, bytecode.OpPrint)
	require.Equal(t, bytecode.OpReturn, ops[len(ops)-1])
}

func TestCompileVarDeclarationGlobal(t *testing.T) {
	fn, err := Compile(`var x = 1; print x;`, testIntern())
	require.NoError(t, err)
	ops := opcodesOf(fn.Chunk)
	require.Contains(t, ops, bytecode.OpDefineGlobal)
	require.Contains(t, ops, bytecode.OpGetGlobal)
}

func TestCompileLocalUsesLocalOpcodes(t *testing.T) {
	fn, err := Compile(`{ var x = 1; print x; }`, testIntern())
	require.NoError(t, err)
	ops := opcodesOf(fn.Chunk)
	require.Contains(t, ops, bytecode.OpGetLocal)
	require.NotContains(t, ops, bytecode.OpGetGlobal)
}

func TestCompileWhileEmitsTrailingPop(t *testing.T) {
	fn, err := Compile(`var i = 0; while (i) { i = 0; }`, testIntern())
	require.NoError(t, err)
	// The instruction at the jump-if-false's target must be a POP draining
	// the false condition, not another jump — this is the redesign-flag fix
	// for original_source/compiler.c's while_statement. It is followed only
	// by the chunk's closing NIL, RETURN pair.
	code := fn.Chunk.Code
	var foundJumpIfFalse bool
	for i := 0; i < len(code); i++ {
		if bytecode.Opcode(code[i]) == bytecode.OpJumpIfFalse {
			foundJumpIfFalse = true
		}
	}
	require.True(t, foundJumpIfFalse)
	require.Equal(t, bytecode.OpPop, bytecode.Opcode(code[len(code)-3]))
}

func TestCompileFunctionDeclaration(t *testing.T) {
	fn, err := Compile(`fun add(a, b) { return a + b; } print add(1, 2);`, testIntern())
	require.NoError(t, err)
	ops := opcodesOf(fn.Chunk)
	require.Contains(t, ops, bytecode.OpCall)
	require.Contains(t, ops, bytecode.OpConstant)
}

func TestCompileErrorUnterminatedBlock(t *testing.T) {
	_, err := Compile(`{ print 1;`, testIntern())
	require.Error(t, err)
}

func TestCompileErrorInvalidAssignmentTarget(t *testing.T) {
	_, err := Compile(`1 = 2;`, testIntern())
	require.Error(t, err)
}

func TestCompileShadowingInSameScopeIsError(t *testing.T) {
	_, err := Compile(`{ var a = 1; var a = 2; }`, testIntern())
	require.Error(t, err)
}

func TestCompileReturnOutsideFunctionIsError(t *testing.T) {
	_, err := Compile(`return 1;`, testIntern())
	require.Error(t, err)
}

func opcodesOf(c *value.Chunk) []bytecode.Opcode {
	var ops []bytecode.Opcode
	i := 0
	for i < len(c.Code) {
		op := bytecode.Opcode(c.Code[i])
		ops = append(ops, op)
		i += 1 + op.OperandBytes()
	}
	return ops
}
