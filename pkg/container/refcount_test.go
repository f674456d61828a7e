package container

import "testing"

func TestRefCountAllocateAndFree(t *testing.T) {
	rc := NewRefCountVector[int16]()

	a := rc.Allocate()
	b := rc.Allocate()
	c := rc.Allocate()
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("fresh allocations = %d,%d,%d, want 0,1,2", a, b, c)
	}
	if rc.Count() != 3 || rc.MaxIndex() != 3 {
		t.Fatalf("Count=%d MaxIndex=%d, want 3,3", rc.Count(), rc.MaxIndex())
	}

	rc.Decrement(b, 1)
	if rc.IsValid(b) {
		t.Fatal("decrement to zero should free the id")
	}
	if rc.Count() != 2 {
		t.Fatalf("Count = %d after free, want 2", rc.Count())
	}

	// Freed slot is reused before the pool grows.
	d := rc.Allocate()
	if d != b {
		t.Fatalf("Allocate reused %d, want freed slot %d", d, b)
	}
	if rc.MaxIndex() != 3 {
		t.Fatalf("MaxIndex grew to %d on reuse", rc.MaxIndex())
	}
}

func TestRefCountIncrementDecrement(t *testing.T) {
	rc := NewRefCountVector[int16]()
	id := rc.Allocate()

	rc.Increment(id, 3)
	if rc.RefCount(id) != 4 {
		t.Fatalf("RefCount = %d, want 4", rc.RefCount(id))
	}
	rc.Decrement(id, 3)
	if rc.RefCount(id) != 1 || !rc.IsValid(id) {
		t.Fatalf("RefCount = %d valid=%v, want 1,true", rc.RefCount(id), rc.IsValid(id))
	}

	defer func() {
		if recover() == nil {
			t.Fatal("decrement below zero should panic")
		}
	}()
	rc.Decrement(id, 2)
}

func TestRefCountAllocateAt(t *testing.T) {
	rc := NewRefCountVector[int16]()

	if !rc.AllocateAt(5) {
		t.Fatal("AllocateAt(5) on empty pool failed")
	}
	if rc.AllocateAt(5) {
		t.Fatal("AllocateAt on occupied slot should fail")
	}
	if rc.MaxIndex() != 6 || rc.Count() != 1 {
		t.Fatalf("MaxIndex=%d Count=%d, want 6,1", rc.MaxIndex(), rc.Count())
	}

	// The gap slots went onto the free list and get reused.
	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		id := rc.Allocate()
		if id >= 5 {
			t.Fatalf("Allocate returned %d, want a gap slot below 5", id)
		}
		if seen[id] {
			t.Fatalf("slot %d handed out twice", id)
		}
		seen[id] = true
	}
}

func TestRefCountUnsafeInsertAndRebuild(t *testing.T) {
	rc := NewRefCountVector[int16]()

	for _, id := range []int{9, 3, 7} {
		if !rc.AllocateAtUnsafe(id) {
			t.Fatalf("AllocateAtUnsafe(%d) failed", id)
		}
	}
	// IsValid stays correct in the unsafe window.
	for _, id := range []int{9, 3, 7} {
		if !rc.IsValid(id) {
			t.Fatalf("id %d invalid inside unsafe window", id)
		}
	}
	if rc.IsValid(4) {
		t.Fatal("gap slot 4 should be invalid")
	}

	rc.RebuildFreeList()
	for i := 0; i < 7; i++ {
		id := rc.Allocate()
		if rc.RefCount(id) != 1 {
			t.Fatalf("reissued id %d has count %d", id, rc.RefCount(id))
		}
	}
	if rc.Count() != 10 || !rc.IsDense() {
		t.Fatalf("Count=%d dense=%v after filling gaps", rc.Count(), rc.IsDense())
	}
}

func TestRefCountValidIndices(t *testing.T) {
	rc := NewRefCountVector[int16]()
	for i := 0; i < 6; i++ {
		rc.Allocate()
	}
	rc.Decrement(1, 1)
	rc.Decrement(4, 1)

	var got []int
	for id := range rc.ValidIndices() {
		got = append(got, id)
	}
	want := []int{0, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("ValidIndices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ValidIndices = %v, want %v", got, want)
		}
	}
}

func TestRefCountMoveEntryAndTrim(t *testing.T) {
	rc := NewRefCountVector[int16]()
	for i := 0; i < 5; i++ {
		rc.Allocate()
	}
	rc.Increment(4, 6)
	rc.Decrement(1, 1) // hole at 1

	rc.MoveEntry(4, 1)
	if rc.IsValid(4) || rc.RefCount(1) != 7 {
		t.Fatalf("MoveEntry: valid(4)=%v count(1)=%d", rc.IsValid(4), rc.RefCount(1))
	}

	rc.Trim(4)
	if rc.MaxIndex() != 4 || rc.Count() != 4 || !rc.IsDense() {
		t.Fatalf("after Trim: MaxIndex=%d Count=%d dense=%v", rc.MaxIndex(), rc.Count(), rc.IsDense())
	}
	if next := rc.Allocate(); next != 4 {
		t.Fatalf("Allocate after Trim = %d, want 4", next)
	}
}
