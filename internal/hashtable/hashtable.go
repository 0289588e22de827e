// Package hashtable implements the open-addressing hash table spec.md §2
// and §9 call for: linear probing, tombstone deletion on erase, power-of
// two capacity, 0.75 max load factor. Grounded directly on
// tx-runtime/include/tx/hash_map.hxx. The original keys the table on a
// sentinel EMPTY_KEY/TOMBSTONE_VALUE pair; Go's generics don't give us a
// cheap "impossible value" for an arbitrary key type, so each slot
// instead carries an explicit state (empty / tombstone / occupied) —
// same probing algorithm, idiomatic Go representation.
//
// StringMap is specialized to string keys because all of tx's uses
// (the compiler's global-name table, the VM's global-name → index
// table and the string-intern set) key on
// string content, and keeping the hash pre-computed alongside the key
// avoids re-hashing on every probe step, mirroring ObjString's stored
// hash field.
package hashtable

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

type entry[V any] struct {
	state slotState
	hash  uint32
	key   string
	value V
}

const maxLoadFactor = 0.75

// StringMap is an open-addressing hash table keyed by string content.
type StringMap[V any] struct {
	entries  []entry[V]
	count    int // occupied + tombstones
	occupied int
}

// NewStringMap returns an empty table; the first Set call allocates the
// initial backing array.
func NewStringMap[V any]() *StringMap[V] {
	return &StringMap[V]{}
}

func (m *StringMap[V]) Len() int { return m.occupied }

// Get returns the value stored for key and whether it was found.
func (m *StringMap[V]) Get(key string, hash uint32) (V, bool) {
	var zero V
	if len(m.entries) == 0 {
		return zero, false
	}
	idx := m.findSlot(key, hash)
	e := &m.entries[idx]
	if e.state != slotOccupied {
		return zero, false
	}
	return e.value, true
}

// Set inserts or overwrites the value for key. Returns true if this
// created a brand new key (as opposed to overwriting an existing one).
func (m *StringMap[V]) Set(key string, hash uint32, value V) bool {
	if float64(m.count+1) > float64(cap(m.entries))*maxLoadFactor || len(m.entries) == 0 {
		m.grow(growCapacity(len(m.entries)))
	}
	idx := m.findSlot(key, hash)
	e := &m.entries[idx]
	isNew := e.state != slotOccupied
	if isNew && e.state == slotEmpty {
		m.count++
	}
	if isNew {
		m.occupied++
	}
	e.state = slotOccupied
	e.hash = hash
	e.key = key
	e.value = value
	return isNew
}

// Delete marks key's slot as a tombstone, preserving probe chains through
// it, per the open-addressing deletion scheme in hash_map.hxx.
func (m *StringMap[V]) Delete(key string, hash uint32) bool {
	if len(m.entries) == 0 {
		return false
	}
	idx := m.findSlot(key, hash)
	e := &m.entries[idx]
	if e.state != slotOccupied {
		return false
	}
	var zero V
	e.state = slotTombstone
	e.key = ""
	e.value = zero
	m.occupied--
	return true
}

// findSlot returns the index of key's slot: an occupied slot holding an
// equal key, or the first empty/tombstone slot found along the probe
// sequence (preferring the earliest tombstone, so repeated
// insert/delete cycles don't grow the probe chain unboundedly).
func (m *StringMap[V]) findSlot(key string, hash uint32) int {
	mask := uint32(len(m.entries) - 1)
	index := hash & mask
	tombstone := -1
	for {
		e := &m.entries[index]
		switch e.state {
		case slotEmpty:
			if tombstone != -1 {
				return tombstone
			}
			return int(index)
		case slotTombstone:
			if tombstone == -1 {
				tombstone = int(index)
			}
		case slotOccupied:
			if e.hash == hash && e.key == key {
				return int(index)
			}
		}
		index = (index + 1) & mask
	}
}

func growCapacity(old int) int {
	if old < 8 {
		return 8
	}
	return old * 2
}

func (m *StringMap[V]) grow(newCap int) {
	old := m.entries
	m.entries = make([]entry[V], newCap)
	m.count = 0
	m.occupied = 0
	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		m.Set(old[i].key, old[i].hash, old[i].value)
	}
}

// Range calls fn for every occupied entry. Iteration order is
// unspecified, as in the original's bucket-order iterator.
func (m *StringMap[V]) Range(fn func(key string, value V) bool) {
	for i := range m.entries {
		if m.entries[i].state != slotOccupied {
			continue
		}
		if !fn(m.entries[i].key, m.entries[i].value) {
			return
		}
	}
}
