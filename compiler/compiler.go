// Package compiler implements tx's single-pass compiler: a Pratt
// parser whose prefix/infix rule functions emit bytecode directly as
// they recognize each grammar production, with no intermediate AST.
// The precedence-table dispatch and the locals/globals/jump-patching
// machinery are carried over from nilan's two compilers (compiler.go's
// Pratt-parser shape, ast_compiler.go's scope/local/global
// bookkeeping) merged into one compiler that never builds a tree.
package compiler

import (
	"fmt"

	"tx/chunk"
	"tx/internal/hashtable"
	"tx/lexer"
	"tx/token"
	"tx/value"
)

// Precedence levels, lowest to highest. A rule's precedence is the
// minimum precedence the parser will keep consuming infix operators
// at, so higher-binding operators nest inside lower ones.
const (
	PrecNone       = iota
	PrecAssignment // =
	PrecOr         // or
	PrecAnd        // and
	PrecEquality   // == !=
	PrecComparison // < > <= >=
	PrecTerm       // + -
	PrecFactor     // * /
	PrecUnary      // ! -
	PrecCall       // . ( [
	PrecPrimary
)

type parseFunc func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence int
}

// maxLocals bounds how many locals a single function/script body may
// declare: the 1-byte GET_LOCAL/SET_LOCAL operand addresses slots
// 0-255 directly, and the core never needs more than that per scope.
const maxLocals = 256

// local is one entry in the compiler's local-variable stack, ordered by
// declaration so the most recently declared local is always last.
type local struct {
	name        string
	depth       int
	initialized bool
	mutable     bool
}

// loopState tracks the innermost enclosing loop being compiled, so
// `break`/`continue` know where to jump.
type loopState struct {
	enclosing  *loopState
	start      int // bytecode offset the condition re-check (continue target) begins at
	scopeDepth int
}

// globalInfo records one forward-declared or defined global name.
type globalInfo struct {
	index   int
	mutable bool
	defined bool
}

// Compiler holds all state for compiling one source string to one
// Chunk. It is not reentrant across sources; create a new one per
// compile.
type Compiler struct {
	chunk *chunk.Chunk

	tokens  []token.Token
	current int

	previous token.Token
	curTok   token.Token

	rules map[token.TokenType]parseRule

	locals     []local
	scopeDepth int
	loop       *loopState

	globalNames *hashtable.StringMap[globalInfo]
	globalOrder []string

	// constCache dedups constants within one compile. This only collapses
	// duplicates for numbers, bools, nil and chars: each string literal
	// allocates its own *ObjString, so two equal-content string Values
	// compare unequal here (object identity) and get separate constant
	// slots — the VM's string-intern table is what gives strings their
	// pointer-equality guarantee at run time, not this cache.
	constCache map[value.Value]int

	errors    []error
	panicking bool
}

// Compile lexes and compiles source in one call, returning the
// resulting chunk or the accumulated compile errors.
func Compile(source string) (*chunk.Chunk, []error) {
	toks, lexErrs := lexer.New(source).Scan()
	c := New(toks)
	for _, e := range lexErrs {
		c.errors = append(c.errors, CompileError{Message: e.Error()})
	}
	return c.Run()
}

// New constructs a Compiler over an already-scanned token stream.
func New(tokens []token.Token) *Compiler {
	c := &Compiler{
		chunk:       chunk.New(),
		tokens:      tokens,
		globalNames: hashtable.NewStringMap[globalInfo](),
		constCache:  make(map[value.Value]int),
	}
	c.rules = c.buildRuleTable()
	return c
}

func (c *Compiler) buildRuleTable() map[token.TokenType]parseRule {
	return map[token.TokenType]parseRule{
		token.LPAREN:   {prefix: (*Compiler).grouping, precedence: PrecCall},
		token.MINUS:    {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.PLUS:     {infix: (*Compiler).binary, precedence: PrecTerm},
		token.SLASH:    {infix: (*Compiler).binary, precedence: PrecFactor},
		token.STAR:     {infix: (*Compiler).binary, precedence: PrecFactor},
		token.BANG:     {prefix: (*Compiler).unary, precedence: PrecUnary},
		token.NOT_EQUAL:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EQUAL_EQUAL:  {infix: (*Compiler).binary, precedence: PrecEquality},
		token.LESS:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS_EQUAL:   {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LARGER:       {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LARGER_EQUAL: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.INT:          {prefix: (*Compiler).number},
		token.FLOAT:        {prefix: (*Compiler).number},
		token.CHAR:         {prefix: (*Compiler).charLiteral},
		token.STRING:       {prefix: (*Compiler).stringLiteral},
		token.RAW_STRING:   {prefix: (*Compiler).stringLiteral},
		token.STRING_INTERP: {prefix: (*Compiler).interpolatedString},
		token.TRUE:         {prefix: (*Compiler).literal},
		token.FALSE:        {prefix: (*Compiler).literal},
		token.NIL:          {prefix: (*Compiler).literal},
		token.IDENTIFIER:   {prefix: (*Compiler).variable},
		token.AND:          {infix: (*Compiler).and, precedence: PrecAnd},
		token.OR:           {infix: (*Compiler).or, precedence: PrecOr},
		token.LBRACE:       {prefix: (*Compiler).blockExpr},
		token.IF:           {prefix: (*Compiler).ifExpr},
		token.LOOP:         {prefix: (*Compiler).loopExpr},
	}
}

func (c *Compiler) getRule(t token.TokenType) parseRule {
	return c.rules[t]
}

// Run compiles the full token stream (a sequence of declarations and
// statements) and returns the resulting chunk. Errors are accumulated,
// not fatal: compilation resynchronizes at the next statement boundary
// and keeps going, so a single typo doesn't hide every other problem
// in the file.
//
// A script is the same "sequence ending in an optional trailing
// expression" shape as a block, except at top level there is no
// enclosing END_SCOPE to guarantee a value: a script with no trailing
// expression (everything statement-terminated by `;`) simply leaves the
// stack empty at RETURN, and one ending in a bare expression leaves that
// expression's value for the host to read.
func (c *Compiler) Run() (*chunk.Chunk, []error) {
	c.advance()
	for !c.check(token.EOF) {
		c.declaration(token.EOF)
	}
	c.emitOp(chunk.OpReturn)
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.chunk, nil
}

// --- token stream ---

func (c *Compiler) advance() {
	c.previous = c.curTok
	if c.current < len(c.tokens) {
		c.curTok = c.tokens[c.current]
		c.current++
	}
}

func (c *Compiler) check(t token.TokenType) bool {
	return c.curTok.Type == t
}

func (c *Compiler) match(t token.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.TokenType, msg string) {
	if c.curTok.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) errorAtCurrent(msg string) {
	c.errorAt(c.curTok, msg)
}

func (c *Compiler) error(msg string) {
	c.errorAt(c.previous, msg)
}

func (c *Compiler) errorAt(tok token.Token, msg string) {
	if c.panicking {
		return
	}
	c.panicking = true
	c.errors = append(c.errors, CompileError{Line: tok.Line, Message: fmt.Sprintf("%s (near '%s')", msg, tok.Lexeme)})
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one syntax error doesn't cascade into a wall of
// spurious follow-on errors.
func (c *Compiler) synchronize() {
	c.panicking = false
	for !c.check(token.EOF) {
		if c.previous.Type == token.SEMICOLON {
			return
		}
		switch c.curTok.Type {
		case token.FUNC, token.LET, token.VAR, token.FOR, token.IF, token.WHILE, token.LOOP, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- emission ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.WriteByte(b, int(c.previous.Line))
}

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.chunk.WriteOpcode(op, int(c.previous.Line))
}

func (c *Compiler) emitShort(op chunk.OpCode, opLong chunk.OpCode, index int) {
	if index <= 0xFF {
		c.emitOp(op)
		c.emitByte(byte(index))
	} else if index <= 0xFFFFFF {
		c.emitOp(opLong)
		c.chunk.Write24(uint32(index), int(c.previous.Line))
	} else {
		c.error("too many constants/locals/globals in one chunk")
	}
}

// emitJump emits op followed by a 2-byte placeholder operand and
// returns the offset of that operand, to be fixed up by patchJump once
// the jump target is known.
func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk.Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	if len(c.chunk.Code)-(offset+2) > 0xFFFF {
		c.error("too much code to jump over")
	}
	c.chunk.PatchJump(offset)
}

// emitLoop emits OP_LOOP with a backward offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)
	dist := len(c.chunk.Code) - loopStart + 2
	if dist > 0xFFFF {
		c.error("loop body too large")
	}
	c.emitByte(byte(dist))
	c.emitByte(byte(dist >> 8))
}

// emitBreakPlaceholder reserves a jump-shaped slot tagged OP_END: its
// target isn't known until the enclosing loop finishes compiling, so it
// is rewritten to OP_JUMP by patchBreaks once that offset is known
// (spec's break/continue scheme, see chunk.OpEnd).
func (c *Compiler) emitBreakPlaceholder() int {
	offset := len(c.chunk.Code)
	c.emitOp(chunk.OpEnd)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return offset
}

// patchBreaks walks the bytecode emitted between loopStart and the
// current end of the chunk, honoring each instruction's real width, and
// rewrites every OP_END break placeholder found into an OP_JUMP
// targeting the current end (the loop's exit point).
func (c *Compiler) patchBreaks(loopStart int) {
	end := len(c.chunk.Code)
	offset := loopStart
	for offset < end {
		op := chunk.OpCode(c.chunk.Code[offset])
		width := chunk.OperandWidth(op)
		if op == chunk.OpEnd {
			c.chunk.Code[offset] = byte(chunk.OpJump)
			c.patchJump(offset + 1)
			width = 2
		}
		offset += 1 + width
	}
}

// makeConstant adds v to the chunk's constant pool, reusing an existing
// slot if an equal value was already added by this compile (Value is
// comparable, so it can key the cache map directly).
func (c *Compiler) makeConstant(v value.Value) int {
	if idx, ok := c.constCache[v]; ok {
		return idx
	}
	idx := c.chunk.AddConstant(v)
	c.constCache[v] = idx
	return idx
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitShort(chunk.OpConstant, chunk.OpConstantLong, c.makeConstant(v))
}

// --- Pratt parsing core ---

func (c *Compiler) parsePrecedence(prec int) {
	c.advance()
	rule := c.getRule(c.previous.Type)
	if rule.prefix == nil {
		c.error("expected expression")
		return
	}
	canAssign := prec <= PrecAssignment
	rule.prefix(c, canAssign)

	for prec <= c.getRule(c.curTok.Type).precedence {
		c.advance()
		infix := c.getRule(c.previous.Type).infix
		if infix == nil {
			c.error("invalid syntax")
			return
		}
		infix(c, canAssign)
	}

	if canAssign && c.match(token.ASSIGN) {
		c.error("invalid assignment target")
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// --- expression rules ---

func (c *Compiler) number(canAssign bool) {
	switch lit := c.previous.Literal.(type) {
	case int64:
		c.emitConstant(value.Int(lit))
	case float64:
		c.emitConstant(value.Float(lit))
	}
}

func (c *Compiler) charLiteral(canAssign bool) {
	r, _ := c.previous.Literal.(rune)
	c.emitConstant(value.Char(r))
}

func (c *Compiler) stringLiteral(canAssign bool) {
	s, _ := c.previous.Literal.(string)
	c.emitConstant(c.internedString(s))
}

// internedString builds the Value for a string constant. Interning
// proper (pointer-identity dedup backed by internal/hashtable) is owned
// by the VM at run time; here every call allocates a fresh ObjString,
// so equal source literals get separate constant slots (see constCache).
func (c *Compiler) internedString(s string) value.Value {
	obj := &value.ObjString{Content: s, Hash: value.FNV1a32(s)}
	return value.Object(obj)
}

// interpolatedString compiles "...${e1}...${e2}..." by pushing each
// literal chunk and each embedded expression's value left to right and
// joining them with ADD. No value is converted to a string: ADD only
// concatenates two strings, so an embedded expression that does not
// evaluate to a string makes the ADD raise a runtime error.
func (c *Compiler) interpolatedString(canAssign bool) {
	chunkStr, _ := c.previous.Literal.(string)
	c.emitConstant(c.internedString(chunkStr))
	segments := 1

	for {
		c.expression()
		segments++
		if c.check(token.STRING) || c.check(token.RAW_STRING) {
			c.advance()
			s, _ := c.previous.Literal.(string)
			c.emitConstant(c.internedString(s))
			segments++
			break
		}
		if c.check(token.STRING_INTERP) {
			c.advance()
			s, _ := c.previous.Literal.(string)
			c.emitConstant(c.internedString(s))
			segments++
			continue
		}
		break
	}

	for i := 1; i < segments; i++ {
		c.emitOp(chunk.OpAdd)
	}
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Type {
	case token.TRUE:
		c.emitOp(chunk.OpTrue)
	case token.FALSE:
		c.emitOp(chunk.OpFalse)
	case token.NIL:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RPAREN, "expected ')' after expression")
}

func (c *Compiler) unary(canAssign bool) {
	opType := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch opType {
	case token.MINUS:
		c.emitOp(chunk.OpNegate)
	case token.BANG:
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) binary(canAssign bool) {
	opType := c.previous.Type
	rule := c.getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.PLUS:
		c.emitOp(chunk.OpAdd)
	case token.MINUS:
		c.emitOp(chunk.OpSubtract)
	case token.STAR:
		c.emitOp(chunk.OpMultiply)
	case token.SLASH:
		c.emitOp(chunk.OpDivide)
	case token.EQUAL_EQUAL:
		c.emitOp(chunk.OpEqual)
	case token.NOT_EQUAL:
		c.emitOp(chunk.OpNotEqual)
	case token.LESS:
		c.emitOp(chunk.OpLess)
	case token.LESS_EQUAL:
		c.emitOp(chunk.OpLessEqual)
	case token.LARGER:
		c.emitOp(chunk.OpGreater)
	case token.LARGER_EQUAL:
		c.emitOp(chunk.OpGreaterEqual)
	}
}

// and/or implement short-circuit evaluation by jumping around the
// right operand instead of always evaluating both sides.
func (c *Compiler) and(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)
	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	name := c.previous.Lexeme

	if slot := c.resolveLocal(name); slot != -1 {
		if !c.locals[slot].initialized {
			c.error(fmt.Sprintf("cannot read local variable '%s' in its own initializer", name))
		}
		if canAssign && c.match(token.ASSIGN) {
			if !c.locals[slot].mutable {
				c.error(fmt.Sprintf("cannot assign to immutable variable '%s'", name))
			}
			c.expression()
			c.emitShort(chunk.OpSetLocal, chunk.OpSetLocalLong, slot)
		} else {
			c.emitShort(chunk.OpGetLocal, chunk.OpGetLocalLong, slot)
		}
		return
	}

	info, ok := c.globalNames.Get(name, value.FNV1a32(name))
	if !ok {
		c.error(fmt.Sprintf("name '%s' is not defined", name))
		return
	}

	if canAssign && c.match(token.ASSIGN) {
		if !info.defined {
			// The first assignment to a forward-declared global defines it;
			// reading it back leaves the assigned value as the result.
			c.expression()
			c.defineGlobal(name)
			c.emitShort(chunk.OpGetGlobal, chunk.OpGetGlobalLong, info.index)
			return
		}
		if !info.mutable {
			c.error(fmt.Sprintf("cannot assign to immutable variable '%s'", name))
		}
		c.expression()
		c.emitShort(chunk.OpSetGlobal, chunk.OpSetGlobalLong, info.index)
		return
	}
	if !info.defined {
		c.error(fmt.Sprintf("cannot read '%s' before it is defined", name))
	}
	c.emitShort(chunk.OpGetGlobal, chunk.OpGetGlobalLong, info.index)
}

// --- locals / scopes ---

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope closes the current scope, emitting END_SCOPE for the locals
// it drops (the VM pops that many stack slots in one instruction rather
// than one POP per local).
func (c *Compiler) endScope() {
	c.scopeDepth--
	popped := 0
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		popped++
	}
	if popped > 0 {
		c.emitShort(chunk.OpEndScope, chunk.OpEndScopeLong, popped)
	}
}

func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i
		}
	}
	return -1
}

func (c *Compiler) declareLocal(name string, mutable bool) {
	if len(c.locals) >= maxLocals {
		c.error("too many local variables in one scope")
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth < c.scopeDepth {
			break
		}
		if c.locals[i].name == name {
			c.error(fmt.Sprintf("redefinition of variable '%s' in the same scope", name))
		}
	}
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth, mutable: mutable})
}

func (c *Compiler) defineLocal(initialized bool) {
	c.locals[len(c.locals)-1].initialized = initialized
}

// --- globals ---

// declareGlobal registers name in the forward-declare table without
// emitting any bytecode: `let name;` with no initializer is legal at
// global scope and simply marks the name reserved-but-undefined until
// a later assignment defines it (`var name;` is instead defined right
// away as nil by varDeclaration).
func (c *Compiler) declareGlobal(name string, mutable bool) globalInfo {
	hash := value.FNV1a32(name)
	if existing, ok := c.globalNames.Get(name, hash); ok {
		if existing.defined {
			c.error(fmt.Sprintf("redefinition of global variable '%s'", name))
		}
		return existing
	}
	index := c.makeConstant(c.internedString(name))
	info := globalInfo{index: index, mutable: mutable}
	c.globalNames.Set(name, hash, info)
	c.globalOrder = append(c.globalOrder, name)
	return info
}

func (c *Compiler) defineGlobal(name string) {
	hash := value.FNV1a32(name)
	info, _ := c.globalNames.Get(name, hash)
	info.defined = true
	c.globalNames.Set(name, hash, info)
	c.emitShort(chunk.OpDefineGlobal, chunk.OpDefineGlobalLong, info.index)
}

// --- declarations / statements ---

// declaration compiles one declaration or statement and reports whether
// it left a value on the stack in tail position (only possible for the
// last item before terminator — see statement/finishValueStatement).
// terminator is the token that closes the enclosing sequence: RBRACE
// for a nested block, EOF for the script itself.
func (c *Compiler) declaration(terminator token.TokenType) bool {
	var leftValue bool
	switch {
	case c.match(token.LET):
		c.varDeclaration(false)
	case c.match(token.VAR):
		c.varDeclaration(true)
	default:
		leftValue = c.statement(terminator)
	}
	if c.panicking {
		c.synchronize()
	}
	return leftValue
}

func (c *Compiler) varDeclaration(mutable bool) {
	c.consume(token.IDENTIFIER, "expected variable name")
	name := c.previous.Lexeme

	if c.scopeDepth > 0 {
		c.declareLocal(name, mutable)
		if c.match(token.ASSIGN) {
			c.expression()
		} else {
			c.emitOp(chunk.OpNil)
		}
		c.defineLocal(true)
	} else {
		c.declareGlobal(name, mutable)
		if c.match(token.ASSIGN) {
			c.expression()
			c.defineGlobal(name)
		} else if mutable {
			c.emitOp(chunk.OpNil)
			c.defineGlobal(name)
		}
		// `let` with no initializer stays forward-declared, undefined
		// until a later assignment defines it.
	}

	c.consume(token.SEMICOLON, "expected ';' after variable declaration")
}

// statement compiles one statement and reports whether it left a value
// on the stack in tail position. `if`/`loop`/a bare block are
// expression forms (spec.md §4.3): compiled the same way whether they
// appear as a statement or nested inside a larger expression via the
// rule table, and popped here unless they sit in tail position.
// `while` has no value (spec.md §4.3's bytecode sketch never pushes one
// for it), so it always reports false.
func (c *Compiler) statement(terminator token.TokenType) bool {
	switch {
	case c.match(token.LBRACE):
		c.blockExpr(false)
		return c.finishValueStatement(terminator)
	case c.match(token.IF):
		c.ifExpr(false)
		return c.finishValueStatement(terminator)
	case c.match(token.LOOP):
		c.loopExpr(false)
		return c.finishValueStatement(terminator)
	case c.match(token.WHILE):
		c.whileStatement()
		return false
	case c.match(token.BREAK):
		c.breakStatement()
		return false
	case c.match(token.CONTINUE):
		c.continueStatement()
		return false
	case c.match(token.FUNC), c.match(token.STRUCT), c.match(token.IMPORT),
		c.match(token.MATCH), c.match(token.ASYNC):
		c.error("this construct is not supported by this build")
		c.skipToSemicolonOrBrace()
		return false
	default:
		return c.expressionStatement(terminator)
	}
}

// finishValueStatement decides what happens to the value a just-compiled
// if/loop/block expression left on the stack when used as a statement:
// an explicit trailing `;` discards it (ordinary statement use); sitting
// right before terminator means it's the enclosing sequence's tail
// value and is kept; anything else means it's followed directly by
// another statement, so spec.md §4.3's "block-expressions used as
// statements implicitly pop" applies.
func (c *Compiler) finishValueStatement(terminator token.TokenType) bool {
	if c.match(token.SEMICOLON) {
		c.emitOp(chunk.OpPop)
		return false
	}
	if c.check(terminator) || c.check(token.EOF) {
		return true
	}
	c.emitOp(chunk.OpPop)
	return false
}

func (c *Compiler) skipToSemicolonOrBrace() {
	for !c.check(token.SEMICOLON) && !c.check(token.EOF) && !c.check(token.LBRACE) {
		c.advance()
	}
}

// block compiles the declarations/statements up to a closing '}',
// consuming it, and guarantees exactly one value sits on top of the
// stack when it returns: the tail expression's value if the block ends
// in one, or NIL otherwise (spec.md §4.3 "otherwise the block yields
// nil"). Callers needing the braces themselves still consumed first use
// blockExpr.
func (c *Compiler) block() {
	leftValue := false
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		leftValue = c.declaration(token.RBRACE)
	}
	if !leftValue {
		c.emitOp(chunk.OpNil)
	}
	c.consume(token.RBRACE, "expected '}' after block")
}

// blockExpr compiles a brace-delimited block as a value: a new lexical
// scope around block's body, with the scope's locals dropped by
// endScope once block has guaranteed a result value sits above them
// (see vm.endScope's pop/pop-n/push-back sequence for END_SCOPE).
// Registered as LBRACE's prefix rule so a block nests anywhere an
// expression can (spec.md §4.3 lists "block { … } expressions").
func (c *Compiler) blockExpr(canAssign bool) {
	c.beginScope()
	c.block()
	c.endScope()
}

func (c *Compiler) expressionStatement(terminator token.TokenType) bool {
	c.expression()
	if c.match(token.SEMICOLON) {
		c.emitOp(chunk.OpPop)
		return false
	}
	if c.check(terminator) || c.check(token.EOF) {
		return true
	}
	c.errorAtCurrent("expected ';' after expression")
	return false
}

// ifExpr compiles `if cond { then } [else { else_ } | else if …]` as a
// value: the taken branch's result (or NIL, if no else runs) is always
// left on the stack (spec.md §4.3, §8 scenario 4). No parens around
// cond — the brace that opens `then` is what ends the condition.
func (c *Compiler) ifExpr(canAssign bool) {
	c.expression()
	c.consume(token.LBRACE, "expected '{' after 'if' condition")

	thenJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.blockExpr(false)

	elseJump := c.emitJump(chunk.OpJump)
	c.patchJump(thenJump)
	c.emitOp(chunk.OpPop)

	if c.match(token.ELSE) {
		if c.match(token.IF) {
			c.ifExpr(false)
		} else {
			c.consume(token.LBRACE, "expected '{' after 'else'")
			c.blockExpr(false)
		}
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.patchJump(elseJump)
}

// whileStatement compiles `while cond { body }`, no parens around cond.
// Unlike if/loop, while is not an expression-form in spec.md §4.3's
// grammar list, so its body's own block value is discarded each
// iteration and while itself never leaves anything on the stack.
func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk.Code)
	c.loop = &loopState{enclosing: c.loop, start: loopStart, scopeDepth: c.scopeDepth}

	c.expression()
	c.consume(token.LBRACE, "expected '{' after 'while' condition")

	exitJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.blockExpr(false)
	c.emitOp(chunk.OpPop)
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.patchBreaks(loopStart) // breaks land on the same POP, which discards their value
	c.emitOp(chunk.OpPop)
	c.loop = c.loop.enclosing
}

// loopExpr compiles tx's unconditional `loop { body }`, exited only via
// `break` (or `return`, once function calls exist). loop is
// expression-valued: the body's own result is irrelevant and discarded
// every iteration, and the value pushed by whichever `break` fires is
// what every break-site jump converges on (spec.md §4.3, §8 scenario 6).
func (c *Compiler) loopExpr(canAssign bool) {
	loopStart := len(c.chunk.Code)
	c.loop = &loopState{enclosing: c.loop, start: loopStart, scopeDepth: c.scopeDepth}

	c.consume(token.LBRACE, "expected '{' after 'loop'")
	c.blockExpr(false)
	c.emitOp(chunk.OpPop)
	c.emitLoop(loopStart)

	c.patchBreaks(loopStart)
	c.loop = c.loop.enclosing
}

// discardLocalsToDepth counts the locals declared deeper than depth —
// the scope depth the innermost loop started at. It only counts: the
// compiler's own `c.locals` stack isn't truncated here, since a
// break/continue doesn't end those scopes for the rest of the compile,
// only for the bytecode the VM runs when it jumps past them.
func (c *Compiler) discardLocalsToDepth(depth int) int {
	count := 0
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > depth; i-- {
		count++
	}
	return count
}

// breakStatement compiles `break;` or `break expr;`. The break value
// (expr, or NIL if omitted) is pushed first; any locals the loop body
// declared below it are then dropped via END_SCOPE, which preserves
// that top-of-stack value exactly like a block's own scope exit does,
// before the placeholder jump out of the loop (spec.md §4.3).
func (c *Compiler) breakStatement() {
	if c.loop == nil {
		c.error("'break' outside of a loop")
	}
	if c.check(token.SEMICOLON) {
		c.emitOp(chunk.OpNil)
	} else {
		c.expression()
	}
	c.consume(token.SEMICOLON, "expected ';' after 'break'")

	if c.loop != nil {
		if popped := c.discardLocalsToDepth(c.loop.scopeDepth); popped > 0 {
			c.emitShort(chunk.OpEndScope, chunk.OpEndScopeLong, popped)
		}
		c.emitBreakPlaceholder()
	}
}

// continueStatement compiles `continue;`. Unlike break it carries no
// value, so locals the loop body declared below the jump are dropped
// with plain POPs rather than END_SCOPE's preserve-the-top form.
func (c *Compiler) continueStatement() {
	if c.loop == nil {
		c.error("'continue' outside of a loop")
		c.consume(token.SEMICOLON, "expected ';' after 'continue'")
		return
	}
	if popped := c.discardLocalsToDepth(c.loop.scopeDepth); popped > 0 {
		for i := 0; i < popped; i++ {
			c.emitOp(chunk.OpPop)
		}
	}
	c.emitLoop(c.loop.start)
	c.consume(token.SEMICOLON, "expected ';' after 'continue'")
}
