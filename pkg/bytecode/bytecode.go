// Package bytecode defines the opcode set executed by the ember virtual
// machine.
//
// Each opcode is a single byte. Most take a fixed number of operand bytes
// immediately following it in a Chunk's code stream (see pkg/value); the
// operand width is part of each opcode's contract and is documented next to
// it below, not carried as a runtime field the way the teacher project's
// struct-based Instruction did. A byte stream rather than a struct slice is
// required here because jump patching (pkg/compiler) rewrites two operand
// bytes in place at a byte offset computed from the code length — there is
// no instruction boundary to preserve once everything is bytes.
package bytecode

// Opcode is a single VM instruction.
type Opcode byte

const (
	// OpConstant pushes constants[operand] (1 byte index).
	OpConstant Opcode = iota
	// OpNil pushes the nil literal.
	OpNil
	// OpTrue pushes the boolean literal true.
	OpTrue
	// OpFalse pushes the boolean literal false.
	OpFalse
	// OpPop discards the top of the stack.
	OpPop
	// OpGetLocal pushes slots[operand] (1 byte slot index).
	OpGetLocal
	// OpSetLocal stores peek(0) into slots[operand] without popping (1 byte slot index).
	OpSetLocal
	// OpGetGlobal pushes globals[constants[operand]]; a missing key is a runtime error (1 byte index).
	OpGetGlobal
	// OpDefineGlobal sets globals[constants[operand]] = pop() (1 byte index).
	OpDefineGlobal
	// OpSetGlobal assigns globals[constants[operand]] = peek(0) without popping;
	// assigning an undefined global is a runtime error (1 byte index).
	OpSetGlobal
	// OpEqual pops b, a and pushes a == b.
	OpEqual
	// OpGreater pops b, a and pushes a > b (numbers only).
	OpGreater
	// OpLess pops b, a and pushes a < b (numbers only).
	OpLess
	// OpAdd pops b, a and pushes a + b (numbers sum, strings concatenate).
	OpAdd
	// OpSubtract pops b, a and pushes a - b (numbers only).
	OpSubtract
	// OpMultiply pops b, a and pushes a * b (numbers only).
	OpMultiply
	// OpDivide pops b, a and pushes a / b (numbers only).
	OpDivide
	// OpNot pops a value and pushes its logical negation.
	OpNot
	// OpNegate pops a number and pushes its arithmetic negation.
	OpNegate
	// OpPrint pops a value and writes its textual form followed by a newline.
	OpPrint
	// OpJump unconditionally advances ip by the 2-byte big-endian operand.
	OpJump
	// OpJumpIfFalse advances ip by the 2-byte big-endian operand if peek(0) is falsy.
	OpJumpIfFalse
	// OpLoop subtracts the 2-byte big-endian operand from ip.
	OpLoop
	// OpCall invokes peek(operand) as a callable with operand arguments (1 byte arg count).
	OpCall
	// OpReturn pops the result, pops the current call frame, and resumes the caller.
	OpReturn
)

var opcodeNames = map[Opcode]string{
	OpConstant: "OP_CONSTANT", OpNil: "OP_NIL", OpTrue: "OP_TRUE", OpFalse: "OP_FALSE",
	OpPop: "OP_POP", OpGetLocal: "OP_GET_LOCAL", OpSetLocal: "OP_SET_LOCAL",
	OpGetGlobal: "OP_GET_GLOBAL", OpDefineGlobal: "OP_DEFINE_GLOBAL", OpSetGlobal: "OP_SET_GLOBAL",
	OpEqual: "OP_EQUAL", OpGreater: "OP_GREATER", OpLess: "OP_LESS",
	OpAdd: "OP_ADD", OpSubtract: "OP_SUBTRACT", OpMultiply: "OP_MULTIPLY", OpDivide: "OP_DIVIDE",
	OpNot: "OP_NOT", OpNegate: "OP_NEGATE", OpPrint: "OP_PRINT",
	OpJump: "OP_JUMP", OpJumpIfFalse: "OP_JUMP_IF_FALSE", OpLoop: "OP_LOOP",
	OpCall: "OP_CALL", OpReturn: "OP_RETURN",
}

// String returns the opcode's canonical disassembly mnemonic.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// OperandBytes reports how many operand bytes follow this opcode in a
// Chunk's code stream. pkg/debug and pkg/vm decode operands with their own
// per-opcode switches and do not call it.
func (op Opcode) OperandBytes() int {
	switch op {
	case OpConstant, OpGetLocal, OpSetLocal, OpGetGlobal, OpDefineGlobal, OpSetGlobal, OpCall:
		return 1
	case OpJump, OpJumpIfFalse, OpLoop:
		return 2
	default:
		return 0
	}
}
