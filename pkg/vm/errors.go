// Package vm - error handling with stack traces.
package vm

import (
	"fmt"
	"strings"
)

// StackFrame captures one call frame's position at the moment a runtime
// error was raised, for the "[line N] in name" trace the spec requires
// (original_source/vm.c's early snapshot has no call frames at all; this
// is built against spec.md §4.6/§7, keeping the teacher's separate
// errors.go file and RuntimeError/StackFrame naming).
type StackFrame struct {
	Name string // function name, or "script" for the top-level frame
	Line int    // source line executing in that frame when the error hit
}

// RuntimeError is a runtime fault: an arithmetic type error, an undefined
// variable, a stack overflow, or a failed call. Its Error() string is the
// exact diagnostic the spec requires: the message, then one
// "[line N] in <name>" frame per active call, innermost first.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		frame := e.StackTrace[i]
		b.WriteByte('\n')
		b.WriteString(fmt.Sprintf("[line %d] in %s", frame.Line, frame.Name))
	}
	return b.String()
}

func newRuntimeError(message string, stack []StackFrame) *RuntimeError {
	return &RuntimeError{Message: message, StackTrace: stack}
}
