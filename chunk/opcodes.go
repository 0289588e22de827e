package chunk

// OpCode is a single bytecode instruction tag. The following-byte count
// for each OpCode is fixed and recorded in operandWidths below; both the
// compiler and the disassembler consult that table rather than each
// keeping their own notion of instruction length (spec.md §9,
// "Variable-length opcodes").
type OpCode byte

const (
	OpConstant OpCode = iota
	OpConstantLong
	OpNil
	OpTrue
	OpFalse
	OpPop

	OpGetLocal
	OpGetLocalLong
	OpSetLocal
	OpSetLocalLong

	OpGetGlobal
	OpGetGlobalLong
	OpSetGlobal
	OpSetGlobalLong
	OpDefineGlobal
	OpDefineGlobalLong

	OpEqual
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide

	OpNot
	OpNegate

	OpJump
	OpJumpIfFalse
	OpLoop

	OpEndScope
	OpEndScopeLong

	OpCall

	OpReturn

	// OpEnd is the break-site placeholder sentinel described in spec.md
	// §4.3: the compiler emits it while a Loop's exit point is still
	// unknown, then rewrites every OpEnd found within the loop's byte
	// range into an OpJump once the loop's end is known. It never
	// survives into a chunk returned from a successful compile.
	OpEnd

	// Reserved, unused by the core (spec.md §1 Non-goals: closures).
	OpClosure
	OpClosureLong
	OpGetUpvalue
	OpGetUpvalueLong
	OpSetUpvalue
	OpSetUpvalueLong
)

// operandWidths gives the number of operand bytes following each opcode
// byte: 0, 1 (short form), 2 (jump offset) or 3 (long form, 24-bit
// index).
var operandWidths = [...]int{
	OpConstant:     1,
	OpConstantLong: 3,
	OpNil:          0,
	OpTrue:         0,
	OpFalse:        0,
	OpPop:          0,

	OpGetLocal:     1,
	OpGetLocalLong: 3,
	OpSetLocal:     1,
	OpSetLocalLong: 3,

	OpGetGlobal:        1,
	OpGetGlobalLong:    3,
	OpSetGlobal:        1,
	OpSetGlobalLong:    3,
	OpDefineGlobal:     1,
	OpDefineGlobalLong: 3,

	OpEqual:        0,
	OpNotEqual:     0,
	OpGreater:      0,
	OpLess:         0,
	OpGreaterEqual: 0,
	OpLessEqual:    0,

	OpAdd:      0,
	OpSubtract: 0,
	OpMultiply: 0,
	OpDivide:   0,

	OpNot:    0,
	OpNegate: 0,

	OpJump:        2,
	OpJumpIfFalse: 2,
	OpLoop:        2,

	OpEndScope:     1,
	OpEndScopeLong: 3,

	OpCall: 1,

	OpReturn: 0,
	OpEnd:    0,

	OpClosure:         1,
	OpClosureLong:     3,
	OpGetUpvalue:      1,
	OpGetUpvalueLong:  3,
	OpSetUpvalue:      1,
	OpSetUpvalueLong:  3,
}

// OperandWidth returns the number of operand bytes that follow op.
func OperandWidth(op OpCode) int {
	return operandWidths[op]
}

var names = [...]string{
	OpConstant:     "CONSTANT",
	OpConstantLong: "CONSTANT_LONG",
	OpNil:          "NIL",
	OpTrue:         "TRUE",
	OpFalse:        "FALSE",
	OpPop:          "POP",

	OpGetLocal:     "GET_LOCAL",
	OpGetLocalLong: "GET_LOCAL_LONG",
	OpSetLocal:     "SET_LOCAL",
	OpSetLocalLong: "SET_LOCAL_LONG",

	OpGetGlobal:        "GET_GLOBAL",
	OpGetGlobalLong:    "GET_GLOBAL_LONG",
	OpSetGlobal:        "SET_GLOBAL",
	OpSetGlobalLong:    "SET_GLOBAL_LONG",
	OpDefineGlobal:     "DEFINE_GLOBAL",
	OpDefineGlobalLong: "DEFINE_GLOBAL_LONG",

	OpEqual:        "EQUAL",
	OpNotEqual:     "NOT_EQUAL",
	OpGreater:      "GREATER",
	OpLess:         "LESS",
	OpGreaterEqual: "GREATER_EQUAL",
	OpLessEqual:    "LESS_EQUAL",

	OpAdd:      "ADD",
	OpSubtract: "SUBSTRACT",
	OpMultiply: "MULTIPLY",
	OpDivide:   "DIVIDE",

	OpNot:    "NOT",
	OpNegate: "NEGATE",

	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpLoop:        "LOOP",

	OpEndScope:     "END_SCOPE",
	OpEndScopeLong: "END_SCOPE_LONG",

	OpCall: "CALL",

	OpReturn: "RETURN",
	OpEnd:    "END",

	OpClosure:        "CLOSURE",
	OpClosureLong:    "CLOSURE_LONG",
	OpGetUpvalue:     "GET_UPVALUE",
	OpGetUpvalueLong: "GET_UPVALUE_LONG",
	OpSetUpvalue:     "SET_UPVALUE",
	OpSetUpvalueLong: "SET_UPVALUE_LONG",
}

func (op OpCode) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "UNKNOWN_OPCODE"
}
