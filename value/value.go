// Package value implements the tagged Value union and the heap Object
// model that the compiler and VM share: Value is the payload that lives
// on the VM's stack and in a chunk's constant pool, Obj is the payload
// that lives on the VM's intrusive heap-object list.
package value

import "fmt"

// Kind tags the payload a Value currently holds.
type Kind uint8

const (
	// KindNone marks an empty slot (uninitialized global, empty hash-map
	// value, uninitialized token literal). Never observable from tx source.
	KindNone Kind = iota
	KindNil
	KindBool
	KindInt
	KindFloat
	KindChar
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged sum type. Go has no space-efficient union the way the
// original C++ runtime does, so only the field matching Kind is
// meaningful; the rest sit unused. This trades a few wasted bytes per
// Value for a representation the Go compiler can reason about without
// unsafe pointer casts.
type Value struct {
	Kind  Kind
	boolV bool
	intV  int64
	fltV  float64
	chrV  rune
	obj   Obj
}

var None = Value{Kind: KindNone}
var Nil = Value{Kind: KindNil}

func Bool(b bool) Value    { return Value{Kind: KindBool, boolV: b} }
func Int(i int64) Value    { return Value{Kind: KindInt, intV: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, fltV: f} }
func Char(r rune) Value    { return Value{Kind: KindChar, chrV: r} }
func Object(o Obj) Value   { return Value{Kind: KindObject, obj: o} }

func (v Value) IsNone() bool   { return v.Kind == KindNone }
func (v Value) IsNil() bool    { return v.Kind == KindNil }
func (v Value) IsBool() bool   { return v.Kind == KindBool }
func (v Value) IsInt() bool    { return v.Kind == KindInt }
func (v Value) IsFloat() bool  { return v.Kind == KindFloat }
func (v Value) IsNumber() bool { return v.Kind == KindInt || v.Kind == KindFloat }
func (v Value) IsChar() bool   { return v.Kind == KindChar }
func (v Value) IsObject() bool { return v.Kind == KindObject }

func (v Value) AsBool() bool     { return v.boolV }
func (v Value) AsInt() int64     { return v.intV }
func (v Value) AsFloat() float64 { return v.fltV }
func (v Value) AsChar() rune     { return v.chrV }
func (v Value) AsObject() Obj    { return v.obj }

// AsFloatForce coerces an Int or Float value to float64, for mixed
// arithmetic where one operand is already a Float.
func (v Value) AsFloatForce() float64 {
	if v.Kind == KindInt {
		return float64(v.intV)
	}
	return v.fltV
}

func (v Value) IsString() bool {
	if v.Kind != KindObject {
		return false
	}
	_, ok := v.obj.(*ObjString)
	return ok
}

func (v Value) AsString() *ObjString {
	return v.obj.(*ObjString)
}

// IsFalsey implements the language's falsey set: exactly Nil and the
// boolean false are falsey; everything else, including 0, 0.0, "" and
// '\0', is truthy.
func (v Value) IsFalsey() bool {
	return v.Kind == KindNil || (v.Kind == KindBool && !v.boolV)
}

// Equal implements tag-then-payload equality. Objects compare by
// identity; since strings are interned this is equivalent to structural
// equality for strings.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNone, KindNil:
		return true
	case KindBool:
		return v.boolV == o.boolV
	case KindInt:
		return v.intV == o.intV
	case KindFloat:
		return v.fltV == o.fltV
	case KindChar:
		return v.chrV == o.chrV
	case KindObject:
		return v.obj == o.obj
	default:
		return false
	}
}

// String renders a Value the way the VM's host-visible stringification
// would (used by disassembly and REPL echoing, not by the language
// itself: there is no in-language print in the core — see SPEC_FULL.md).
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "<none>"
	case KindNil:
		return "nil"
	case KindBool:
		if v.boolV {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.intV)
	case KindFloat:
		return fmt.Sprintf("%g", v.fltV)
	case KindChar:
		return fmt.Sprintf("%q", v.chrV)
	case KindObject:
		return fmt.Sprintf("%v", v.obj)
	default:
		return "<?>"
	}
}
