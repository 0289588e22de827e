package vm

import (
	"tx/internal/hashtable"
	"tx/value"
)

// internTable deduplicates ObjStrings by content so that equal string
// content always resolves to the same *ObjString, making Value.Equal's
// object-identity comparison correct for strings (spec's "interning
// means content equality implies pointer identity").
type internTable struct {
	strings *hashtable.StringMap[*value.ObjString]
}

func newInternTable() *internTable {
	return &internTable{strings: hashtable.NewStringMap[*value.ObjString]()}
}

// intern returns the canonical *ObjString for s, registering obj as the
// canonical instance the first time s is seen and linking it into the
// VM's object list via link so a future collector can still walk it.
func (t *internTable) intern(s string, link func(value.Obj)) *value.ObjString {
	hash := value.FNV1a32(s)
	if existing, ok := t.strings.Get(s, hash); ok {
		return existing
	}
	obj := &value.ObjString{Content: s, Hash: hash}
	t.strings.Set(s, hash, obj)
	link(obj)
	return obj
}
