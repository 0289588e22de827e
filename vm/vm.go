// Package vm implements tx's stack-based bytecode interpreter: a
// dispatch loop driven by the chunk package's opcode table, a fixed
// value stack, a name-resolved global table (so globals survive across
// separate REPL compiles of the same VM), and a string-intern table
// feeding an intrusive heap-object list. Grounded on nilan's vm.VM /
// vm.Stack shape, generalized from "single bytecode blob, single Run
// call" to tx's persistent, repeatedly-fed VM.
package vm

import (
	"fmt"
	"os"

	"tx/chunk"
	"tx/compiler"
	"tx/debug"
	"tx/internal/hashtable"
	"tx/value"
)

// stackMax bounds the VM's value stack. The core never recurses (no
// function calls), so this only needs to be large enough for deeply
// nested expressions, not for call depth.
const stackMax = 256

// InterpretResult classifies how Interpret finished.
type InterpretResult int

const (
	InterpretOk InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case InterpretOk:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	case InterpretRuntimeError:
		return "runtime error"
	default:
		return "unknown"
	}
}

// VM is the tx runtime: the current chunk and instruction pointer, the
// value stack, global variable storage, the string-intern table, and
// the intrusive object list root.
type VM struct {
	options Options

	chunk *chunk.Chunk
	ip    int

	stack    [stackMax]value.Value
	stackTop int

	globalValues []value.Value
	globalIndex  *hashtable.StringMap[int]

	interned *internTable
	objects  value.Obj // head of the intrusive heap-object list

	lastErr error
}

// New returns a VM ready to Interpret source, one call at a time.
// Global state persists across calls on the same VM, which is what
// lets a REPL build up bindings incrementally.
func New(options Options) *VM {
	return &VM{
		options:     options,
		globalIndex: hashtable.NewStringMap[int](),
		interned:    newInternTable(),
	}
}

func (vm *VM) link(o value.Obj) {
	o.SetNext(vm.objects)
	vm.objects = o
}

// LastError returns the error from the most recent non-Ok Interpret
// call, for callers (the CLI) that want the underlying error rather
// than just the InterpretResult classification.
func (vm *VM) LastError() error { return vm.lastErr }

// GlobalValue looks up a global binding by name. The core has no
// in-language print (see SPEC_FULL.md), so this is how a host
// — an embedder, or a test — reads a result back out of a VM instead
// of relying on stack state left over after Interpret, which is empty
// for any chunk that only contains statements.
func (vm *VM) GlobalValue(name string) (value.Value, bool) {
	idx, ok := vm.globalIndex.Get(name, value.FNV1a32(name))
	if !ok {
		return value.Nil, false
	}
	return vm.globalValues[idx], true
}

// Interpret compiles and runs one source string against this VM's
// persistent state.
func (vm *VM) Interpret(source string) InterpretResult {
	if vm.options.PrintTokens {
		debug.DumpTokens(os.Stderr, source)
	}

	c, errs := compiler.Compile(source)
	if len(errs) > 0 {
		vm.lastErr = joinErrors(errs)
		return InterpretCompileError
	}

	// Swap each string constant for its interned instance so equal
	// string content is pointer-equal at run time.
	for i, k := range c.Constants {
		if k.IsString() {
			c.Constants[i] = value.Object(vm.interned.intern(k.AsString().Content, vm.link))
		}
	}

	vm.chunk = c
	vm.ip = 0
	vm.stackTop = 0

	if vm.options.PrintBytecode {
		debug.DisassembleChunk(os.Stderr, c, "<script>")
	}

	if err := vm.run(); err != nil {
		vm.lastErr = err
		vm.stackTop = 0
		return InterpretRuntimeError
	}
	return InterpretOk
}

// StackTop returns the value left on the stack after a successful
// Interpret call, if any. A script ending in a trailing expression
// (spec.md §4.3's block-value rule applied at script scope) leaves its
// result here instead of in a global; one that's entirely
// statement-terminated by `;` leaves the stack empty. This is how a
// REPL or other host prints "the script's last expression" (spec.md
// §8's end-to-end scenarios are phrased exactly that way).
func (vm *VM) StackTop() (value.Value, bool) {
	if vm.stackTop == 0 {
		return value.Nil, false
	}
	return vm.stack[vm.stackTop-1], true
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := fmt.Sprintf("%d compile errors:", len(errs))
	for _, e := range errs {
		msg += "\n  " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) read24() uint32 {
	v := vm.chunk.Read24(vm.ip)
	vm.ip += 3
	return v
}

func (vm *VM) read16() uint16 {
	v := vm.chunk.Read16(vm.ip)
	vm.ip += 2
	return v
}

func (vm *VM) runtimeError(format string, args ...any) error {
	line := 0
	if vm.chunk != nil && vm.ip > 0 {
		line = vm.chunk.GetLine(vm.ip - 1)
	}
	return RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// run executes vm.chunk starting at vm.ip until OP_RETURN or an error.
func (vm *VM) run() error {
	for {
		if vm.options.TraceExecution {
			vm.traceStep()
		}

		op := chunk.OpCode(vm.readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(vm.chunk.Constants[vm.readByte()])
		case chunk.OpConstantLong:
			vm.push(vm.chunk.Constants[vm.read24()])

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			vm.push(vm.stack[vm.readByte()])
		case chunk.OpGetLocalLong:
			vm.push(vm.stack[vm.read24()])
		case chunk.OpSetLocal:
			vm.stack[vm.readByte()] = vm.peek(0)
		case chunk.OpSetLocalLong:
			vm.stack[vm.read24()] = vm.peek(0)

		case chunk.OpEndScope:
			vm.endScope(int(vm.readByte()))
		case chunk.OpEndScopeLong:
			vm.endScope(int(vm.read24()))

		case chunk.OpDefineGlobal:
			if err := vm.defineGlobal(vm.chunk.Constants[vm.readByte()]); err != nil {
				return err
			}
		case chunk.OpDefineGlobalLong:
			if err := vm.defineGlobal(vm.chunk.Constants[vm.read24()]); err != nil {
				return err
			}

		case chunk.OpGetGlobal:
			if err := vm.getGlobal(vm.chunk.Constants[vm.readByte()]); err != nil {
				return err
			}
		case chunk.OpGetGlobalLong:
			if err := vm.getGlobal(vm.chunk.Constants[vm.read24()]); err != nil {
				return err
			}
		case chunk.OpSetGlobal:
			if err := vm.setGlobal(vm.chunk.Constants[vm.readByte()]); err != nil {
				return err
			}
		case chunk.OpSetGlobalLong:
			if err := vm.setGlobal(vm.chunk.Constants[vm.read24()]); err != nil {
				return err
			}

		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(a.Equal(b)))
		case chunk.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!a.Equal(b)))
		case chunk.OpGreater, chunk.OpLess, chunk.OpGreaterEqual, chunk.OpLessEqual:
			if err := vm.compare(op); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if err := vm.arithmetic(op); err != nil {
				return err
			}

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case chunk.OpNegate:
			if err := vm.negate(); err != nil {
				return err
			}

		case chunk.OpJump:
			offset := vm.read16()
			vm.ip += int(offset)
		case chunk.OpJumpIfFalse:
			offset := vm.read16()
			if vm.peek(0).IsFalsey() {
				vm.ip += int(offset)
			}
		case chunk.OpLoop:
			offset := vm.read16()
			vm.ip -= int(offset)

		case chunk.OpCall:
			return vm.runtimeError("function calls are not supported")

		case chunk.OpReturn:
			return nil

		default:
			return vm.runtimeError("unknown opcode %v", op)
		}
	}
}

// endScope closes a block's scope: it pops the block's own result
// value, drops the popped locals the block declared beneath it, then
// pushes the result back (spec.md §4.4's END_SCOPE semantics, and the
// "scope discipline" invariant of spec.md §8: stack depth after a block
// equals its pre-block depth plus one).
func (vm *VM) endScope(popped int) {
	result := vm.pop()
	vm.stackTop -= popped
	vm.push(result)
}

// defineGlobal binds nameVal to the value on top of the stack. A name
// already bound on this VM (e.g. a second `let x` typed at the REPL)
// is only accepted when AllowGlobalRedefinition is set; a script file
// hitting the same case is a RuntimeError, since the compiler's own
// redefinition check only catches repeats within a single compile and
// can't see across separate Interpret calls on a persistent VM.
func (vm *VM) defineGlobal(nameVal value.Value) error {
	name := nameVal.AsString().Content
	hash := value.FNV1a32(name)
	v := vm.pop()
	if idx, ok := vm.globalIndex.Get(name, hash); ok {
		if !vm.options.AllowGlobalRedefinition {
			return vm.runtimeError("redefinition of global variable '%s'", name)
		}
		vm.globalValues[idx] = v
		return nil
	}
	vm.globalValues = append(vm.globalValues, v)
	vm.globalIndex.Set(name, hash, len(vm.globalValues)-1)
	return nil
}

func (vm *VM) getGlobal(nameVal value.Value) error {
	name := nameVal.AsString().Content
	idx, ok := vm.globalIndex.Get(name, value.FNV1a32(name))
	if !ok {
		return vm.runtimeError("undefined variable '%s'", name)
	}
	vm.push(vm.globalValues[idx])
	return nil
}

func (vm *VM) setGlobal(nameVal value.Value) error {
	name := nameVal.AsString().Content
	hash := value.FNV1a32(name)
	idx, ok := vm.globalIndex.Get(name, hash)
	if !ok {
		return vm.runtimeError("undefined variable '%s'", name)
	}
	vm.globalValues[idx] = vm.peek(0)
	return nil
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.binaryNumeric(chunk.OpAdd)
		return nil
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := a.AsString().Content + b.AsString().Content
		obj := vm.interned.intern(concatenated, vm.link)
		vm.push(value.Object(obj))
		return nil
	default:
		return vm.runtimeError("operands to '+' must be two numbers or two strings, got %s and %s", a.Kind, b.Kind)
	}
}

func (vm *VM) arithmetic(op chunk.OpCode) error {
	b, a := vm.peek(0), vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands to arithmetic operator must be numbers, got %s and %s", a.Kind, b.Kind)
	}
	if op == chunk.OpDivide && b.IsInt() && b.AsInt() == 0 {
		return vm.runtimeError("division by zero")
	}
	vm.binaryNumeric(op)
	return nil
}

// binaryNumeric pops the two numeric operands pushed by peek'd callers,
// applies op, and pushes the result. Int op Int stays Int (except when
// either operand is already Float, which forces float division/
// multiplication/etc.), matching the language's numeric-tower rule that
// arithmetic only widens to Float when a Float operand is present.
func (vm *VM) binaryNumeric(op chunk.OpCode) {
	b := vm.pop()
	a := vm.pop()

	if a.IsInt() && b.IsInt() {
		x, y := a.AsInt(), b.AsInt()
		switch op {
		case chunk.OpAdd:
			vm.push(value.Int(x + y))
		case chunk.OpSubtract:
			vm.push(value.Int(x - y))
		case chunk.OpMultiply:
			vm.push(value.Int(x * y))
		case chunk.OpDivide:
			vm.push(value.Int(x / y))
		}
		return
	}

	x, y := a.AsFloatForce(), b.AsFloatForce()
	switch op {
	case chunk.OpAdd:
		vm.push(value.Float(x + y))
	case chunk.OpSubtract:
		vm.push(value.Float(x - y))
	case chunk.OpMultiply:
		vm.push(value.Float(x * y))
	case chunk.OpDivide:
		vm.push(value.Float(x / y))
	}
}

func (vm *VM) compare(op chunk.OpCode) error {
	b, a := vm.peek(0), vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands to comparison operator must be numbers, got %s and %s", a.Kind, b.Kind)
	}
	vm.pop()
	vm.pop()
	x, y := a.AsFloatForce(), b.AsFloatForce()
	var result bool
	switch op {
	case chunk.OpGreater:
		result = x > y
	case chunk.OpLess:
		result = x < y
	case chunk.OpGreaterEqual:
		result = x >= y
	case chunk.OpLessEqual:
		result = x <= y
	}
	vm.push(value.Bool(result))
	return nil
}

func (vm *VM) negate() error {
	v := vm.peek(0)
	if !v.IsNumber() {
		return vm.runtimeError("operand to unary '-' must be a number, got %s", v.Kind)
	}
	vm.pop()
	if v.IsInt() {
		vm.push(value.Int(-v.AsInt()))
	} else {
		vm.push(value.Float(-v.AsFloat()))
	}
	return nil
}
