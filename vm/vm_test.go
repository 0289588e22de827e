package vm

import (
	"testing"
)

func interpretOK(t *testing.T, machine *VM, src string) {
	t.Helper()
	if res := machine.Interpret(src); res != InterpretOk {
		t.Fatalf("Interpret(%q) = %v, want ok (%v)", src, res, machine.LastError())
	}
}

func globalInt(t *testing.T, machine *VM, name string) int64 {
	t.Helper()
	v, ok := machine.GlobalValue(name)
	if !ok {
		t.Fatalf("global %q not defined", name)
	}
	if !v.IsInt() {
		t.Fatalf("global %q = %v, want an Int", name, v)
	}
	return v.AsInt()
}

func TestArithmeticPrecedence(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let result = 1 + 2 * 3;")
	if got := globalInt(t, m, "result"); got != 7 {
		t.Errorf("result = %d, want 7", got)
	}
}

func TestIntDivisionTruncates(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let result = 7 / 2;")
	if got := globalInt(t, m, "result"); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

func TestMixedIntFloatWidensToFloat(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let result = 1 + 2.5;")
	v, ok := m.GlobalValue("result")
	if !ok || !v.IsFloat() {
		t.Fatalf("result = %v, want a Float", v)
	}
	if v.AsFloat() != 3.5 {
		t.Errorf("result = %v, want 3.5", v.AsFloat())
	}
}

func TestIntDivisionByZeroIsRuntimeError(t *testing.T) {
	m := New(Options{})
	if res := m.Interpret("let result = 1 / 0;"); res != InterpretRuntimeError {
		t.Fatalf("Interpret = %v, want runtime error", res)
	}
}

func TestStringConcatenation(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, `let result = "foo" + "bar";`)
	v, ok := m.GlobalValue("result")
	if !ok || !v.IsString() {
		t.Fatalf("result = %v, want a string", v)
	}
	if v.AsString().Content != "foobar" {
		t.Errorf("result = %q, want %q", v.AsString().Content, "foobar")
	}
}

func TestStringInternGivesPointerEquality(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, `let a = "foo" + "bar"; let b = "foo" + "bar";`)
	av, _ := m.GlobalValue("a")
	bv, _ := m.GlobalValue("b")
	if !av.Equal(bv) {
		t.Error("two equal-content interned strings should compare equal by identity")
	}
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let x = 10;")
	interpretOK(t, m, "let y = x + 5;")
	if got := globalInt(t, m, "y"); got != 15 {
		t.Errorf("y = %d, want 15 (x should persist from the earlier Interpret call)", got)
	}
}

func TestGlobalRedefinitionRejectedByDefault(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let x = 1;")
	if res := m.Interpret("let x = 2;"); res != InterpretRuntimeError {
		t.Fatalf("Interpret = %v, want runtime error redefining a global without AllowGlobalRedefinition", res)
	}
}

func TestGlobalRedefinitionAllowedForRepl(t *testing.T) {
	m := New(Options{AllowGlobalRedefinition: true})
	interpretOK(t, m, "let x = 1;")
	interpretOK(t, m, "let x = 2;")
	if got := globalInt(t, m, "x"); got != 2 {
		t.Errorf("x = %d, want 2 after a REPL-style redefinition", got)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, `
		var i = 0;
		var sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		let result = sum;
	`)
	if got := globalInt(t, m, "result"); got != 10 {
		t.Errorf("result = %d, want 10", got)
	}
}

func TestLoopWithBreak(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, `
		var i = 0;
		loop {
			if i == 3 { break; }
			i = i + 1;
		}
		let result = i;
	`)
	if got := globalInt(t, m, "result"); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

func TestLoopWithContinueSkipsRemainingBody(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, `
		var i = 0;
		var sum = 0;
		while i < 5 {
			i = i + 1;
			if i == 3 { continue; }
			sum = sum + i;
		}
		let result = sum;
	`)
	// i runs 1..5, skipping the add when i == 3: 1+2+4+5 = 12.
	if got := globalInt(t, m, "result"); got != 12 {
		t.Errorf("result = %d, want 12", got)
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let result = false and (1 / 0 == 0);")
	v, ok := m.GlobalValue("result")
	if !ok || !v.IsFalsey() {
		t.Errorf("result = %v, want falsey (short-circuited before the division by zero)", v)
	}
}

func TestComparisonAndEquality(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let result = (1 < 2) == true;")
	v, ok := m.GlobalValue("result")
	if !ok || v.IsFalsey() {
		t.Errorf("result = %v, want true", v)
	}
}

func TestNegateTypeError(t *testing.T) {
	m := New(Options{})
	if res := m.Interpret(`let result = -"hi";`); res != InterpretRuntimeError {
		t.Fatalf("Interpret = %v, want runtime error negating a string", res)
	}
}

func TestBlockScopeLocalsDoNotLeakGlobally(t *testing.T) {
	m := New(Options{})
	if res := m.Interpret("{ var x = 1; } x;"); res != InterpretCompileError {
		t.Fatalf("Interpret = %v, want compile error referencing out-of-scope local 'x'", res)
	}
}

func stackTopInt(t *testing.T, machine *VM) int64 {
	t.Helper()
	v, ok := machine.StackTop()
	if !ok {
		t.Fatal("expected a value left on the stack for the script's trailing expression")
	}
	if !v.IsInt() {
		t.Fatalf("stack top = %v, want an Int", v)
	}
	return v.AsInt()
}

func TestTrailingExpressionIsScriptResult(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let x = 10; x + 5")
	if got := stackTopInt(t, m); got != 15 {
		t.Errorf("result = %d, want 15", got)
	}
}

func TestNestedBlockShadowsOuterLocalAndYieldsItsValue(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "var x = 1; { var x = 2; x }")
	if got := stackTopInt(t, m); got != 2 {
		t.Errorf("result = %d, want 2", got)
	}
}

func TestIfElseIsExpressionValued(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "if true { 1 } else { 2 }")
	if got := stackTopInt(t, m); got != 1 {
		t.Errorf("result = %d, want 1", got)
	}
}

func TestWhileLeavesTrailingExpressionAfterIt(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "var i = 0; while i < 3 { i = i + 1; } i")
	if got := stackTopInt(t, m); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

func TestLoopBreakWithValueIsLoopResult(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "var n = 0; loop { if n == 5 { break n; } n = n + 1; }")
	if got := stackTopInt(t, m); got != 5 {
		t.Errorf("result = %d, want 5", got)
	}
}

func TestAllStatementsTerminatedBySemicolonLeavesStackEmpty(t *testing.T) {
	m := New(Options{})
	interpretOK(t, m, "let x = 1;")
	if _, ok := m.StackTop(); ok {
		t.Error("expected an empty stack after an all-`;`-terminated script")
	}
}
