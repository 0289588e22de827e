// Package dynarray implements the growable contiguous buffer spec.md §2
// calls for, grounded on tx-runtime/include/tx/dyn_array.hxx's growth
// policy: start at capacity 8, double on overflow. A Go slice already
// gives amortized-doubling growth for free, so DynArray is a thin
// wrapper that pins the starting capacity and exposes the
// spec-shaped operations (PushBack, Size, Get/Set) the chunk and VM
// stack are specified in terms of, rather than a from-scratch
// reallocation scheme.
package dynarray

const startCapacity = 8

// DynArray is a growable buffer of T, indexable like a slice.
type DynArray[T any] struct {
	items []T
}

// New returns an empty DynArray pre-sized to the reference starting
// capacity.
func New[T any]() DynArray[T] {
	return DynArray[T]{items: make([]T, 0, startCapacity)}
}

func (d *DynArray[T]) PushBack(v T) {
	d.items = append(d.items, v)
}

func (d *DynArray[T]) Size() int { return len(d.items) }

func (d *DynArray[T]) Get(i int) T { return d.items[i] }

func (d *DynArray[T]) Set(i int, v T) { d.items[i] = v }

func (d *DynArray[T]) Last() T { return d.items[len(d.items)-1] }

func (d *DynArray[T]) Truncate(n int) { d.items = d.items[:n] }

func (d *DynArray[T]) Slice() []T { return d.items }
