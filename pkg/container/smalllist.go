package container

import "iter"

// SmallListSet stores one small unordered list of ints per index. Lists hold
// their first few elements inline in a shared block store and spill the rest
// into a shared linked store, so insert/remove churn on low-valence lists
// never touches the Go heap.
//
// Block layout: [count, e0 .. e7, spillHead]. count includes spilled
// elements; spillHead chains through the linked store as [value, next] pairs.
const (
	smallListInline    = 8
	smallListBlockInts = smallListInline + 2
	smallListNull      = -1
)

// SmallListSet maps index -> unordered list of ints.
type SmallListSet struct {
	listHeads  *DVector[int] // per index: offset into blocks, or smallListNull
	blocks     *DVector[int]
	freeBlocks []int
	spill      *DVector[int] // [value, next] pairs
	freeSpill  int           // head of spill free list, chained through next
	allocated  int
}

// NewSmallListSet creates an empty set of lists.
func NewSmallListSet() *SmallListSet {
	return &SmallListSet{
		listHeads: NewDVector[int](),
		blocks:    NewDVector[int](),
		spill:     NewDVector[int](),
		freeSpill: smallListNull,
	}
}

// Size returns one past the highest list index ever allocated.
func (s *SmallListSet) Size() int {
	return s.listHeads.Len()
}

// Resize sets the head table size to n. New slots have no list allocated;
// shrinking releases any lists at indices n and above so their blocks and
// spill nodes return to the free pools.
func (s *SmallListSet) Resize(n int) {
	for i := n; i < s.listHeads.Len(); i++ {
		if s.listHeads.At(i) != smallListNull {
			s.release(i)
		}
	}
	if n < s.listHeads.Len() {
		s.listHeads.Resize(n)
	}
	for s.listHeads.Len() < n {
		s.listHeads.Add(smallListNull)
	}
}

// IsAllocated reports whether a list exists at index.
func (s *SmallListSet) IsAllocated(index int) bool {
	return index >= 0 && index < s.listHeads.Len() && s.listHeads.At(index) != smallListNull
}

// AllocateAt creates an empty list at index, growing the head table as
// needed. Allocating an existing list clears it.
func (s *SmallListSet) AllocateAt(index int) {
	if index < 0 {
		panic("container: SmallListSet allocate at negative index")
	}
	if index >= s.listHeads.Len() {
		s.Resize(index + 1)
	}
	if s.listHeads.At(index) != smallListNull {
		s.Clear(index)
		return
	}
	block := s.allocBlock()
	s.listHeads.Set(index, block)
	s.allocated++
}

// Count returns the number of elements in the list at index, 0 if no list is
// allocated there.
func (s *SmallListSet) Count(index int) int {
	b := s.head(index)
	if b == smallListNull {
		return 0
	}
	return s.blocks.At(b)
}

// Insert appends val to the list at index.
func (s *SmallListSet) Insert(index, val int) {
	b := s.head(index)
	if b == smallListNull {
		panic("container: SmallListSet insert into unallocated list")
	}
	n := s.blocks.At(b)
	if n < smallListInline {
		s.blocks.Set(b+1+n, val)
	} else {
		node := s.allocSpill(val, s.blocks.At(b+1+smallListInline))
		s.blocks.Set(b+1+smallListInline, node)
	}
	s.blocks.Set(b, n+1)
}

// Remove deletes one occurrence of val from the list at index, reporting
// whether it was found.
func (s *SmallListSet) Remove(index, val int) bool {
	b := s.head(index)
	if b == smallListNull {
		return false
	}
	n := s.blocks.At(b)
	inline := n
	if inline > smallListInline {
		inline = smallListInline
	}
	for j := 0; j < inline; j++ {
		if s.blocks.At(b+1+j) != val {
			continue
		}
		spillHead := s.blocks.At(b + 1 + smallListInline)
		if n > smallListInline {
			// Pull the spill head down into the vacated inline slot.
			s.blocks.Set(b+1+j, s.spill.At(spillHead))
			next := s.spill.At(spillHead + 1)
			s.blocks.Set(b+1+smallListInline, next)
			s.freeSpillNode(spillHead)
		} else if j != n-1 {
			s.blocks.Set(b+1+j, s.blocks.At(b+1+n-1))
		}
		s.blocks.Set(b, n-1)
		return true
	}
	if n <= smallListInline {
		return false
	}
	// Search the spill chain.
	prev := smallListNull
	cur := s.blocks.At(b + 1 + smallListInline)
	for cur != smallListNull {
		if s.spill.At(cur) == val {
			next := s.spill.At(cur + 1)
			if prev == smallListNull {
				s.blocks.Set(b+1+smallListInline, next)
			} else {
				s.spill.Set(prev+1, next)
			}
			s.freeSpillNode(cur)
			s.blocks.Set(b, n-1)
			return true
		}
		prev = cur
		cur = s.spill.At(cur + 1)
	}
	return false
}

// Contains reports whether val is in the list at index.
func (s *SmallListSet) Contains(index, val int) bool {
	for v := range s.Values(index) {
		if v == val {
			return true
		}
	}
	return false
}

// Replace rewrites every element matching pred with newVal and returns the
// number of rewrites. Used when an element ID is renumbered during
// compaction.
func (s *SmallListSet) Replace(index int, pred func(int) bool, newVal int) int {
	b := s.head(index)
	if b == smallListNull {
		return 0
	}
	replaced := 0
	n := s.blocks.At(b)
	inline := n
	if inline > smallListInline {
		inline = smallListInline
	}
	for j := 0; j < inline; j++ {
		if pred(s.blocks.At(b + 1 + j)) {
			s.blocks.Set(b+1+j, newVal)
			replaced++
		}
	}
	if n > smallListInline {
		for cur := s.blocks.At(b + 1 + smallListInline); cur != smallListNull; cur = s.spill.At(cur + 1) {
			if pred(s.spill.At(cur)) {
				s.spill.Set(cur, newVal)
				replaced++
			}
		}
	}
	return replaced
}

// Move relocates the entire list at fromIndex to toIndex, leaving fromIndex
// unallocated. Any list previously at toIndex is released.
func (s *SmallListSet) Move(fromIndex, toIndex int) {
	if toIndex >= s.listHeads.Len() {
		s.Resize(toIndex + 1)
	}
	if s.listHeads.At(toIndex) != smallListNull {
		s.release(toIndex)
	}
	s.listHeads.Set(toIndex, s.listHeads.At(fromIndex))
	s.listHeads.Set(fromIndex, smallListNull)
}

// Clear empties the list at index but keeps it allocated.
func (s *SmallListSet) Clear(index int) {
	b := s.head(index)
	if b == smallListNull {
		return
	}
	s.releaseSpillChain(b)
	s.blocks.Set(b, 0)
	s.blocks.Set(b+1+smallListInline, smallListNull)
}

// Values returns a restartable sequence over the list at index. Order is
// unspecified. The list must not be mutated during iteration.
func (s *SmallListSet) Values(index int) iter.Seq[int] {
	return func(yield func(int) bool) {
		b := s.head(index)
		if b == smallListNull {
			return
		}
		n := s.blocks.At(b)
		inline := n
		if inline > smallListInline {
			inline = smallListInline
		}
		for j := 0; j < inline; j++ {
			if !yield(s.blocks.At(b + 1 + j)) {
				return
			}
		}
		if n > smallListInline {
			for cur := s.blocks.At(b + 1 + smallListInline); cur != smallListNull; cur = s.spill.At(cur + 1) {
				if !yield(s.spill.At(cur)) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy.
func (s *SmallListSet) Clone() *SmallListSet {
	return &SmallListSet{
		listHeads:  s.listHeads.Clone(),
		blocks:     s.blocks.Clone(),
		freeBlocks: append([]int(nil), s.freeBlocks...),
		spill:      s.spill.Clone(),
		freeSpill:  s.freeSpill,
		allocated:  s.allocated,
	}
}

// ---------------------------------------------------------------------------
// internals
// ---------------------------------------------------------------------------

func (s *SmallListSet) head(index int) int {
	if index < 0 || index >= s.listHeads.Len() {
		return smallListNull
	}
	return s.listHeads.At(index)
}

func (s *SmallListSet) allocBlock() int {
	var b int
	if n := len(s.freeBlocks); n > 0 {
		b = s.freeBlocks[n-1]
		s.freeBlocks = s.freeBlocks[:n-1]
	} else {
		b = s.blocks.Len()
		s.blocks.Resize(b + smallListBlockInts)
	}
	s.blocks.Set(b, 0)
	s.blocks.Set(b+1+smallListInline, smallListNull)
	return b
}

// release frees the block and spill chain at index.
func (s *SmallListSet) release(index int) {
	b := s.listHeads.At(index)
	s.releaseSpillChain(b)
	s.freeBlocks = append(s.freeBlocks, b)
	s.listHeads.Set(index, smallListNull)
	s.allocated--
}

func (s *SmallListSet) releaseSpillChain(block int) {
	cur := s.blocks.At(block + 1 + smallListInline)
	for cur != smallListNull {
		next := s.spill.At(cur + 1)
		s.freeSpillNode(cur)
		cur = next
	}
}

func (s *SmallListSet) allocSpill(val, next int) int {
	if s.freeSpill != smallListNull {
		node := s.freeSpill
		s.freeSpill = s.spill.At(node + 1)
		s.spill.Set(node, val)
		s.spill.Set(node+1, next)
		return node
	}
	node := s.spill.Len()
	s.spill.Add(val)
	s.spill.Add(next)
	return node
}

func (s *SmallListSet) freeSpillNode(node int) {
	s.spill.Set(node+1, s.freeSpill)
	s.freeSpill = node
}
