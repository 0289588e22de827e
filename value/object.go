package value

import "fmt"

// ObjType tags the concrete heap-object variant. STRING is the only
// variant the core constructs; the rest are reserved so the CLOSURE,
// GET_UPVALUE etc. opcodes have a type to reference even though nothing
// in the core produces them (see spec.md §3 "Object", Non-goals).
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeClosure
	ObjTypeNative
	ObjTypeUpvalue
)

// Obj is implemented by every heap-object variant. Next/SetNext form the
// intrusive singly-linked object list rooted in the VM (object.hxx's
// next_object); a future external collector walks it as a root set.
type Obj interface {
	Type() ObjType
	Next() Obj
	SetNext(Obj)
	fmt.Stringer
}

type objHeader struct {
	next Obj
}

func (h *objHeader) Next() Obj      { return h.next }
func (h *objHeader) SetNext(o Obj)  { h.next = o }

// ObjString is an immutable, interned byte string with a precomputed
// hash. Interning means content equality implies pointer identity, which
// is what makes Value.Equal's identity comparison correct for strings.
type ObjString struct {
	objHeader
	Content string
	Hash    uint32
}

func (s *ObjString) Type() ObjType { return ObjTypeString }
func (s *ObjString) String() string { return s.Content }

// ObjFunction, ObjClosure, ObjNative, ObjUpvalue are reserved variants:
// the core never allocates one (no function-call frames, no closures —
// see spec.md §1 Non-goals), but the reserved opcodes that would
// reference them (CLOSURE, GET_UPVALUE, SET_UPVALUE) need a concrete
// Go type to typecheck against so the opcode table stays authoritative
// even for operations the VM does not implement.
type ObjFunction struct {
	objHeader
	Name  *ObjString
	Arity int
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }
func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Content)
}

type ObjClosure struct {
	objHeader
	Function *ObjFunction
}

func (c *ObjClosure) Type() ObjType   { return ObjTypeClosure }
func (c *ObjClosure) String() string  { return c.Function.String() }

type ObjNative struct {
	objHeader
	Name string
	Fn   func(args []Value) (Value, error)
}

func (n *ObjNative) Type() ObjType  { return ObjTypeNative }
func (n *ObjNative) String() string { return "<native fn>" }

type ObjUpvalue struct {
	objHeader
	Location *Value
}

func (u *ObjUpvalue) Type() ObjType  { return ObjTypeUpvalue }
func (u *ObjUpvalue) String() string { return "upvalue" }

// FNV1a32 is the hash used to intern strings and to key the globals
// table. The original runtime uses MurmurHash (hash_murmur.hxx); tx uses
// FNV-1a instead, the hash the Go standard library and ecosystem reach
// for when a small, dependency-free, good-enough string hash is needed
// (see DESIGN.md for the full justification).
func FNV1a32(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
