package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (stdout, stderr string, result InterpretResult) {
	t.Helper()
	var out, errOut bytes.Buffer
	vm := New(&out, &errOut)
	result = vm.Interpret(source)
	return out.String(), errOut.String(), result
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, _, res := run(t, `print 1 + 2 * 3;`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, _, res := run(t, `print "foo" + "bar";`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "foobar\n", out)
}

func TestInterpretGlobalVariables(t *testing.T) {
	out, _, res := run(t, `var x = 10; x = x + 5; print x;`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "15\n", out)
}

func TestInterpretUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, errOut, res := run(t, `print nope;`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, errOut, "Undefined variable 'nope'")
}

func TestInterpretAssignUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, errOut, res := run(t, `nope = 1;`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, errOut, "Undefined variable 'nope'")
}

func TestInterpretLocalScoping(t *testing.T) {
	out, _, res := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "inner\nouter\n", out)
}

func TestInterpretIfElse(t *testing.T) {
	out, _, res := run(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "yes\n", out)
}

func TestInterpretWhileLoop(t *testing.T) {
	out, _, res := run(t, `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		print sum;
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "10\n", out)
}

func TestInterpretForLoop(t *testing.T) {
	out, _, res := run(t, `
		var total = 0;
		for (var i = 0; i < 5; i = i + 1) {
			total = total + i;
		}
		print total;
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "10\n", out)
}

func TestInterpretFunctionCallAndReturn(t *testing.T) {
	out, _, res := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(3, 4);
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "7\n", out)
}

func TestInterpretRecursiveFunction(t *testing.T) {
	out, _, res := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "55\n", out)
}

func TestInterpretTypeErrorOnArithmetic(t *testing.T) {
	_, errOut, res := run(t, `print "a" - 1;`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, errOut, "Operands must be numbers.")
	require.Contains(t, errOut, "[line 1] in script")
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	_, errOut, res := run(t, `
		fun f(a) { return a; }
		f(1, 2);
	`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, errOut, "Expected 1 arguments but got 2.")
}

func TestInterpretCompileErrorReportsLine(t *testing.T) {
	_, errOut, res := run(t, "var;\n")
	require.Equal(t, InterpretCompileError, res)
	require.Contains(t, errOut, "[line 1]")
}

func TestInterpretClockNative(t *testing.T) {
	out, _, res := run(t, `print clock() >= 0;`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, "true\n", strings.TrimSpace(out))
}

func TestTeardownClearsObjects(t *testing.T) {
	var out, errOut bytes.Buffer
	vm := New(&out, &errOut)
	vm.Interpret(`var s = "hello";`)
	require.Greater(t, vm.AllocatedCount(), 0)
	vm.Teardown()
	require.Equal(t, 0, vm.AllocatedCount())
}
