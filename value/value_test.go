package value

import "testing"

func TestIsFalsey(t *testing.T) {
	falsey := []Value{Nil, Bool(false)}
	truthy := []Value{Bool(true), Int(0), Float(0), Char(0), Object(&ObjString{Content: ""})}

	for _, v := range falsey {
		if !v.IsFalsey() {
			t.Errorf("expected %v to be falsey", v)
		}
	}
	for _, v := range truthy {
		if v.IsFalsey() {
			t.Errorf("expected %v to be truthy", v)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Int(1).Equal(Int(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
	if Int(1).Equal(Float(1)) {
		t.Error("Int and Float should never compare equal, even with the same numeric value")
	}
	if Nil.Equal(Bool(false)) {
		t.Error("Nil and false are both falsey but are not equal")
	}

	a := &ObjString{Content: "hi"}
	b := &ObjString{Content: "hi"}
	if Object(a).Equal(Object(b)) {
		t.Error("distinct *ObjString pointers with equal content should not compare equal without interning")
	}
	if !Object(a).Equal(Object(a)) {
		t.Error("a value should equal itself")
	}
}

func TestAsFloatForce(t *testing.T) {
	if got := Int(3).AsFloatForce(); got != 3.0 {
		t.Errorf("AsFloatForce() on Int(3) = %v, want 3.0", got)
	}
	if got := Float(2.5).AsFloatForce(); got != 2.5 {
		t.Errorf("AsFloatForce() on Float(2.5) = %v, want 2.5", got)
	}
}

func TestValueAsMapKey(t *testing.T) {
	cache := map[Value]int{}
	cache[Int(1)] = 10
	cache[Float(1)] = 20
	if cache[Int(1)] != 10 || cache[Float(1)] != 20 {
		t.Error("Int and Float constants with the same numeric value must occupy distinct map slots")
	}
}

func TestIsString(t *testing.T) {
	s := Object(&ObjString{Content: "x"})
	if !s.IsString() {
		t.Error("expected IsString() to be true for an ObjString value")
	}
	if Int(1).IsString() {
		t.Error("expected IsString() to be false for an Int value")
	}
}
