package vm

import "github.com/kristofer/ember/pkg/value"

// callValue dispatches a call instruction against whatever is on the
// stack at the callee position: an ember function pushes a new call
// frame, a native function runs immediately and leaves its result on the
// stack, anything else is a runtime error.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	if callee.IsObj() {
		switch fn := callee.AsObj().(type) {
		case *value.ObjFunction:
			return vm.callFunction(fn, argCount)
		case *value.ObjNative:
			args := vm.stack[vm.sp-argCount : vm.sp]
			result := fn.Fn(args)
			vm.sp -= argCount + 1
			vm.push(result)
			return nil
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

// callFunction pushes a new CallFrame for fn, checking arity and the
// FramesMax recursion bound first.
func (vm *VM) callFunction(fn *value.ObjFunction, argCount int) error {
	if argCount != fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if vm.frameCount == FramesMax {
		return vm.runtimeError("Stack overflow.")
	}

	frame := &vm.frames[vm.frameCount]
	frame.fn = fn
	frame.ip = 0
	frame.slotBase = vm.sp - argCount - 1
	vm.frameCount++
	return nil
}

// defineNative installs a host-provided function as a global callable
// named name.
func (vm *VM) defineNative(name string, fn value.NativeFn) {
	native := value.NewObjNative(name, fn)
	vm.addObject(native)
	key := vm.copyString(name)
	vm.globals.Set(key, value.FromObj(native))
}
