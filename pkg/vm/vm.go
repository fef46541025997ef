// Package vm implements the bytecode virtual machine for ember.
//
// The VM is a stack-based interpreter that executes the bytecode
// pkg/compiler produces. It's the final stage in the execution pipeline:
//
//	Source Code -> Lexer -> Compiler (parse + emit, single pass) -> VM -> Execution
//
// Virtual Machine Architecture:
//
// The VM uses a stack-based architecture with the following components:
//
//  1. Value Stack: a fixed-size array of value.Value, indexed by sp.
//  2. Call Frames: a fixed-size array of CallFrame, one per active
//     function call, each with its own instruction pointer and a window
//     ("slots") into the shared value stack.
//  3. Globals Table: a pkg/table.Table mapping interned names to values.
//  4. String Interner: a second pkg/table.Table used only as a set, so
//     that equal string content always shares one *value.ObjString.
//
// Execution Model:
//
// The VM executes instructions sequentially using each frame's
// instruction pointer. Each instruction manipulates the stack, a local
// slot, a global, or control flow (jump/loop/call/return).
//
// Error Handling:
//
// The VM returns a RuntimeError for runtime problems — type errors,
// undefined variables, stack overflow, and failed calls — each carrying a
// stack trace of every active call frame at the point of failure.
//
// Design Philosophy (kept from the teacher, still true here):
//
//   - Simple: Easy to understand and debug
//   - Efficient: Minimal overhead for common operations
//   - Safe: Checks bounds and types to prevent crashes
package vm

import (
	"fmt"
	"io"

	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/compiler"
	"github.com/kristofer/ember/pkg/table"
	"github.com/kristofer/ember/pkg/value"
)

// FramesMax bounds the number of nested calls (original_source/vm.h's
// FRAMES_MAX).
const FramesMax = 64

// StackMax is the total value stack size: 256 slots per frame, times
// FramesMax (original_source/vm.h's STACK_MAX).
const StackMax = FramesMax * 256

// CallFrame is one active function invocation: the function being run,
// its instruction pointer, and the window of the shared value stack that
// holds its locals (slot 0 is the function itself, matching the
// compiler's slot-0 reservation).
type CallFrame struct {
	fn       *value.ObjFunction
	ip       int
	slotBase int
}

// InterpretResult reports how Interpret finished.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// VM is ember's bytecode interpreter. It is single-threaded and
// non-reentrant: calling Interpret concurrently from multiple goroutines
// on the same VM is unsupported, matching spec §5.
type VM struct {
	frames     [FramesMax]CallFrame
	frameCount int

	stack [StackMax]value.Value
	sp    int

	globals *table.Table
	strings *table.Table
	objects value.Obj

	// Out and ErrOut are where OP_PRINT output and runtime error
	// diagnostics go, respectively — kept as explicit io.Writer fields
	// rather than hardcoded to os.Stdout/os.Stderr, following the
	// teacher's VM field style, so tests can capture output without
	// touching the real streams.
	Out    io.Writer
	ErrOut io.Writer
}

// New returns a ready-to-use VM writing program output to out and
// diagnostics to errOut.
func New(out, errOut io.Writer) *VM {
	vm := &VM{
		globals: table.New(),
		strings: table.New(),
		Out:     out,
		ErrOut:  errOut,
	}
	vm.resetStack()
	vm.defineNative("clock", nativeClock)
	return vm
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCount = 0
}

func (vm *VM) push(v value.Value) { vm.stack[vm.sp] = v; vm.sp++ }
func (vm *VM) pop() value.Value   { vm.sp--; return vm.stack[vm.sp] }
func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// addObject prepends o to the VM's intrusive allocation list, the
// "reclamation spine" spec §4.7 describes. See DESIGN.md's Open Question
// resolution on garbage collection for why this list is still built and
// walked even though nothing is freed by hand.
func (vm *VM) addObject(o value.Obj) {
	o.SetNext(vm.objects)
	vm.objects = o
}

// Teardown drops the allocation list. It frees nothing —
// Go's own collector reclaims unreachable objects — but leaves the VM in
// a state where len(allocated) is back to zero, which is what the spec's
// invariant tests care about for a fresh VM.
func (vm *VM) Teardown() {
	vm.objects = nil
}

// AllocatedCount walks the intrusive object list and counts every
// allocation still linked, for tests asserting against spec §8's
// allocation-accounting invariants.
func (vm *VM) AllocatedCount() int {
	n := 0
	for o := vm.objects; o != nil; o = o.Next() {
		n++
	}
	return n
}

// copyString interns a string by content: chars is copied into a fresh
// ObjString only if an equal string isn't already interned.
func (vm *VM) copyString(chars string) *value.ObjString {
	hash := value.HashString(chars)
	if interned := vm.strings.FindString(chars, hash); interned != nil {
		return interned
	}
	s := value.NewObjString(chars, hash)
	vm.addObject(s)
	vm.strings.Set(s, value.Nil)
	return s
}

// Interpret compiles and runs source against this VM.
func (vm *VM) Interpret(source string) InterpretResult {
	fn, err := compiler.Compile(source, vm.copyString)
	if err != nil {
		fmt.Fprintln(vm.ErrOut, err.Error())
		return InterpretCompileError
	}

	vm.addObject(fn)
	// Nested function objects live in their enclosing chunk's constant
	// pool; link each of them onto the allocation list as well.
	pending := []*value.ObjFunction{fn}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, c := range f.Chunk.Constants {
			if nested, ok := c.AsObj().(*value.ObjFunction); c.IsObj() && ok {
				vm.addObject(nested)
				pending = append(pending, nested)
			}
		}
	}
	vm.push(value.FromObj(fn))
	vm.callFunction(fn, 0)

	if err := vm.run(); err != nil {
		fmt.Fprintln(vm.ErrOut, err.Error())
		vm.resetStack()
		return InterpretRuntimeError
	}
	return InterpretOK
}

func (vm *VM) currentFrame() *CallFrame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) readByte(f *CallFrame) byte {
	b := f.fn.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *CallFrame) uint16 {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant(f *CallFrame) value.Value {
	return f.fn.Chunk.Constants[vm.readByte(f)]
}

// run executes bytecode until the outermost call frame returns or a
// runtime error occurs.
func (vm *VM) run() error {
	frame := vm.currentFrame()

	for {
		op := bytecode.Opcode(vm.readByte(frame))

		switch op {
		case bytecode.OpConstant:
			vm.push(vm.readConstant(frame))

		case bytecode.OpNil:
			vm.push(value.Nil)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.slotBase+int(slot)])
		case bytecode.OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.slotBase+int(slot)] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readConstant(frame).AsObj().(*value.ObjString)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case bytecode.OpDefineGlobal:
			name := vm.readConstant(frame).AsObj().(*value.ObjString)
			vm.globals.Set(name, vm.pop())
		case bytecode.OpSetGlobal:
			name := vm.readConstant(frame).AsObj().(*value.ObjString)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(a.Equals(b)))
		case bytecode.OpGreater:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a > b) }); err != nil {
				return err
			}
		case bytecode.OpLess:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a < b) }); err != nil {
				return err
			}

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpSubtract:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return err
			}
		case bytecode.OpMultiply:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return err
			}
		case bytecode.OpDivide:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return err
			}

		case bytecode.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsy()))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.Out, vm.pop().String())

		case bytecode.OpJump:
			offset := vm.readShort(frame)
			frame.ip += int(offset)
		case bytecode.OpJumpIfFalse:
			offset := vm.readShort(frame)
			if vm.peek(0).IsFalsy() {
				frame.ip += int(offset)
			}
		case bytecode.OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= int(offset)

		case bytecode.OpCall:
			argCount := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = vm.currentFrame()

		case bytecode.OpReturn:
			result := vm.pop()
			finished := vm.frameCount - 1
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the script function itself
				return nil
			}
			vm.sp = vm.frames[finished].slotBase
			vm.push(result)
			frame = vm.currentFrame()

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) binaryNumberOp(f func(a, b float64) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(f(a, b))
	return nil
}

func (vm *VM) add() error {
	if vm.peek(0).IsNumber() && vm.peek(1).IsNumber() {
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
		return nil
	}
	if isString(vm.peek(0)) && isString(vm.peek(1)) {
		b := vm.pop().AsObj().(*value.ObjString)
		a := vm.pop().AsObj().(*value.ObjString)
		vm.push(value.FromObj(vm.copyString(a.Chars + b.Chars)))
		return nil
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.AsObj().(*value.ObjString)
	return ok
}

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	var trace []StackFrame
	for i := 0; i < vm.frameCount; i++ {
		f := &vm.frames[i]
		line := f.fn.Chunk.Lines[f.ip-1]
		name := "script"
		if f.fn.Name != nil {
			name = f.fn.Name.Chars
		}
		trace = append(trace, StackFrame{Name: name, Line: line})
	}
	return newRuntimeError(msg, trace)
}
