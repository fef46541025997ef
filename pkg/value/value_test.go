package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsFalsy(t *testing.T) {
	require.True(t, Nil.IsFalsy())
	require.True(t, Bool(false).IsFalsy())
	require.False(t, Bool(true).IsFalsy())
	require.False(t, Number(0).IsFalsy())
	require.False(t, Number(1).IsFalsy())
}

func TestEquals(t *testing.T) {
	require.True(t, Number(1).Equals(Number(1)))
	require.False(t, Number(1).Equals(Number(2)))
	require.False(t, Number(1).Equals(Bool(true)))
	require.True(t, Nil.Equals(Nil))
	require.True(t, Bool(true).Equals(Bool(true)))

	s1 := NewObjString("abc", HashString("abc"))
	s2 := NewObjString("abc", HashString("abc"))
	require.True(t, FromObj(s1).Equals(FromObj(s1)))
	require.False(t, FromObj(s1).Equals(FromObj(s2)), "distinct pointers must not be equal without interning")
}

func TestNumberString(t *testing.T) {
	require.Equal(t, "1", Number(1).String())
	require.Equal(t, "1.5", Number(1.5).String())
	require.Equal(t, "-3", Number(-3).String())
}

func TestObjFunctionString(t *testing.T) {
	fn := NewObjFunction()
	require.Equal(t, "<script>", fn.String())
	fn.Name = NewObjString("add", HashString("add"))
	require.Equal(t, "<fn add>", fn.String())
}

func TestHashStringDeterministic(t *testing.T) {
	require.Equal(t, HashString("hello"), HashString("hello"))
	require.NotEqual(t, HashString("hello"), HashString("world"))
}

func TestChunkWriteGrows(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 20; i++ {
		c.Write(byte(i), 1)
	}
	require.Len(t, c.Code, 20)
	require.Len(t, c.Lines, 20)
}

func TestChunkAddConstant(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(Number(42))
	require.Equal(t, 0, idx)
	require.Equal(t, Number(42), c.Constants[idx])
}
