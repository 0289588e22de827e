package dynarray

import "testing"

func TestPushBackAndGet(t *testing.T) {
	var d DynArray[int]
	for i := 0; i < 20; i++ {
		d.PushBack(i)
	}
	if d.Size() != 20 {
		t.Fatalf("Size() = %d, want 20", d.Size())
	}
	for i := 0; i < 20; i++ {
		if d.Get(i) != i {
			t.Errorf("Get(%d) = %d, want %d", i, d.Get(i), i)
		}
	}
}

func TestSetAndLast(t *testing.T) {
	d := New[string]()
	d.PushBack("a")
	d.PushBack("b")
	d.Set(1, "c")
	if d.Last() != "c" {
		t.Errorf("Last() = %q, want %q", d.Last(), "c")
	}
}

func TestTruncate(t *testing.T) {
	d := New[int]()
	d.PushBack(1)
	d.PushBack(2)
	d.PushBack(3)
	d.Truncate(1)
	if d.Size() != 1 {
		t.Fatalf("Size() after Truncate(1) = %d, want 1", d.Size())
	}
	if d.Get(0) != 1 {
		t.Errorf("Get(0) = %d, want 1", d.Get(0))
	}
}

func TestSliceReflectsContents(t *testing.T) {
	d := New[int]()
	d.PushBack(5)
	d.PushBack(6)
	s := d.Slice()
	if len(s) != 2 || s[0] != 5 || s[1] != 6 {
		t.Errorf("Slice() = %v, want [5 6]", s)
	}
}
