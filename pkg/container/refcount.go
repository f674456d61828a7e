package container

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// RefCountVector manages the sparse set of valid integer IDs for one element
// kind. A slot's count is 0 while free and >= 1 while allocated; counts above
// 1 track how many structural references the owner holds on the element.
//
// The counter type C is chosen by the owner; a compact signed integer keeps
// the per-element overhead small, which is why the mesh kernel instantiates
// this with int16 and enforces its own ceiling before incrementing.
type RefCountVector[C constraints.Signed] struct {
	counts      *DVector[C]
	freeIndices []int
	used        int
}

// NewRefCountVector creates an empty pool.
func NewRefCountVector[C constraints.Signed]() *RefCountVector[C] {
	return &RefCountVector[C]{counts: NewDVector[C]()}
}

// Count returns the number of currently valid IDs.
func (rc *RefCountVector[C]) Count() int {
	return rc.used
}

// MaxIndex returns one past the highest ID ever issued. Valid IDs are a
// (possibly sparse) subset of [0, MaxIndex).
func (rc *RefCountVector[C]) MaxIndex() int {
	return rc.counts.Len()
}

// IsEmpty reports whether no IDs are allocated.
func (rc *RefCountVector[C]) IsEmpty() bool {
	return rc.used == 0
}

// IsDense reports whether the valid IDs exactly fill [0, MaxIndex).
func (rc *RefCountVector[C]) IsDense() bool {
	return rc.used == rc.counts.Len()
}

// IsValid reports whether id is currently allocated.
func (rc *RefCountVector[C]) IsValid(id int) bool {
	return id >= 0 && id < rc.counts.Len() && rc.counts.At(id) > 0
}

// RefCount returns the raw count for id, 0 if id is free or out of range.
func (rc *RefCountVector[C]) RefCount(id int) int {
	if id < 0 || id >= rc.counts.Len() {
		return 0
	}
	return int(rc.counts.At(id))
}

// Allocate returns a fresh ID with count 1, reusing a freed slot when one is
// available.
func (rc *RefCountVector[C]) Allocate() int {
	rc.used++
	if n := len(rc.freeIndices); n > 0 {
		id := rc.freeIndices[n-1]
		rc.freeIndices = rc.freeIndices[:n-1]
		rc.counts.Set(id, 1)
		return id
	}
	return rc.counts.Add(1)
}

// AllocateAt marks the specific ID as allocated with count 1. Returns false
// if id is negative or already valid. Slots introduced below id by extending
// the pool are added to the free list.
func (rc *RefCountVector[C]) AllocateAt(id int) bool {
	if id < 0 || rc.IsValid(id) {
		return false
	}
	if id >= rc.counts.Len() {
		for j := rc.counts.Len(); j < id; j++ {
			rc.counts.Add(0)
			rc.freeIndices = append(rc.freeIndices, j)
		}
		rc.counts.Add(1)
	} else {
		rc.removeFromFreeList(id)
		rc.counts.Set(id, 1)
	}
	rc.used++
	return true
}

// AllocateAtUnsafe is AllocateAt without free-list maintenance. It is meant
// for batch insertion at externally supplied IDs: the free list is stale
// afterwards, so Allocate must not be called until RebuildFreeList has run.
func (rc *RefCountVector[C]) AllocateAtUnsafe(id int) bool {
	if id < 0 || rc.IsValid(id) {
		return false
	}
	for rc.counts.Len() <= id {
		rc.counts.Add(0)
	}
	rc.counts.Set(id, 1)
	rc.used++
	return true
}

// RebuildFreeList rescans the pool and reconstructs the free list. Must be
// called after a batch of AllocateAtUnsafe calls before Allocate is used
// again.
func (rc *RefCountVector[C]) RebuildFreeList() {
	rc.freeIndices = rc.freeIndices[:0]
	for id := 0; id < rc.counts.Len(); id++ {
		if rc.counts.At(id) == 0 {
			rc.freeIndices = append(rc.freeIndices, id)
		}
	}
}

// Increment adds n references to a valid id.
func (rc *RefCountVector[C]) Increment(id int, n int) {
	if !rc.IsValid(id) {
		panic("container: increment of invalid id")
	}
	rc.counts.Set(id, rc.counts.At(id)+C(n))
}

// Decrement removes n references from id. When the count reaches 0 the slot
// returns to the free list. Decrementing below 0 is a contract violation and
// panics: it means the owner's bookkeeping has already diverged.
func (rc *RefCountVector[C]) Decrement(id int, n int) {
	if !rc.IsValid(id) {
		panic("container: decrement of invalid id")
	}
	c := rc.counts.At(id) - C(n)
	if c < 0 {
		panic("container: ref count underflow")
	}
	rc.counts.Set(id, c)
	if c == 0 {
		rc.freeIndices = append(rc.freeIndices, id)
		rc.used--
	}
}

// MoveEntry transplants the count of a valid slot onto a free slot. This is
// compaction support: the free list is stale afterwards and the caller is
// expected to finish with Trim.
func (rc *RefCountVector[C]) MoveEntry(from, to int) {
	if !rc.IsValid(from) || rc.IsValid(to) {
		panic("container: bad MoveEntry")
	}
	for rc.counts.Len() <= to {
		rc.counts.Add(0)
	}
	rc.counts.Set(to, rc.counts.At(from))
	rc.counts.Set(from, 0)
}

// Trim shrinks the pool to exactly n slots after a compaction pass has moved
// every valid entry below n. All n remaining slots must be valid; the free
// list is emptied.
func (rc *RefCountVector[C]) Trim(n int) {
	rc.counts.Resize(n)
	rc.freeIndices = rc.freeIndices[:0]
	rc.used = n
}

// ValidIndices returns a restartable sequence over the currently valid IDs
// in increasing order.
func (rc *RefCountVector[C]) ValidIndices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := 0; id < rc.counts.Len(); id++ {
			if rc.counts.At(id) > 0 {
				if !yield(id) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy.
func (rc *RefCountVector[C]) Clone() *RefCountVector[C] {
	return &RefCountVector[C]{
		counts:      rc.counts.Clone(),
		freeIndices: append([]int(nil), rc.freeIndices...),
		used:        rc.used,
	}
}

// removeFromFreeList deletes id from the free list if present. Linear; this
// is why batch specific-ID insertion should use the unsafe path instead.
func (rc *RefCountVector[C]) removeFromFreeList(id int) {
	for i, f := range rc.freeIndices {
		if f == id {
			last := len(rc.freeIndices) - 1
			rc.freeIndices[i] = rc.freeIndices[last]
			rc.freeIndices = rc.freeIndices[:last]
			return
		}
	}
}
