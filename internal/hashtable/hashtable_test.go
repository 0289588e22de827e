package hashtable

import (
	"strconv"
	"testing"
)

func fnv32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func TestSetAndGet(t *testing.T) {
	m := NewStringMap[int]()
	isNew := m.Set("a", fnv32("a"), 1)
	if !isNew {
		t.Error("first Set of a key should report isNew=true")
	}
	isNew = m.Set("a", fnv32("a"), 2)
	if isNew {
		t.Error("overwriting an existing key should report isNew=false")
	}

	v, ok := m.Get("a", fnv32("a"))
	if !ok || v != 2 {
		t.Errorf("Get(a) = (%v, %v), want (2, true)", v, ok)
	}

	if _, ok := m.Get("missing", fnv32("missing")); ok {
		t.Error("Get on a missing key should report ok=false")
	}
}

func TestDeleteThenReinsert(t *testing.T) {
	m := NewStringMap[int]()
	m.Set("x", fnv32("x"), 1)
	m.Set("y", fnv32("y"), 2)

	if !m.Delete("x", fnv32("x")) {
		t.Fatal("Delete(x) should succeed")
	}
	if _, ok := m.Get("x", fnv32("x")); ok {
		t.Error("Get(x) should fail after Delete")
	}
	// y must still be reachable through the tombstone left by x's probe chain.
	if v, ok := m.Get("y", fnv32("y")); !ok || v != 2 {
		t.Errorf("Get(y) after deleting x = (%v, %v), want (2, true)", v, ok)
	}

	m.Set("x", fnv32("x"), 3)
	if v, ok := m.Get("x", fnv32("x")); !ok || v != 3 {
		t.Errorf("Get(x) after reinsertion = (%v, %v), want (3, true)", v, ok)
	}
}

func TestGrowPreservesEntries(t *testing.T) {
	m := NewStringMap[int]()
	const n = 200
	for i := 0; i < n; i++ {
		key := "key" + strconv.Itoa(i)
		m.Set(key, fnv32(key), i)
	}
	if m.Len() != n {
		t.Fatalf("Len() = %d, want %d", m.Len(), n)
	}
	for i := 0; i < n; i++ {
		key := "key" + strconv.Itoa(i)
		v, ok := m.Get(key, fnv32(key))
		if !ok || v != i {
			t.Errorf("Get(%q) = (%v, %v), want (%d, true)", key, v, ok, i)
		}
	}
}

func TestRangeVisitsAllOccupied(t *testing.T) {
	m := NewStringMap[int]()
	m.Set("a", fnv32("a"), 1)
	m.Set("b", fnv32("b"), 2)
	m.Delete("a", fnv32("a"))

	seen := map[string]int{}
	m.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	if len(seen) != 1 || seen["b"] != 2 {
		t.Errorf("Range visited %v, want only {b:2}", seen)
	}
}
