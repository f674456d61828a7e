// Package container provides the index-addressed storage primitives the mesh
// kernel is built on: block-allocated flat buffers, a reference-counted index
// pool, and a set of small per-index lists. None of these types know anything
// about mesh semantics; they are reused for every element kind.
package container

// dvectorBlockSize is the number of elements per storage block. Growth
// allocates whole blocks so existing elements are never copied.
const dvectorBlockSize = 2048

// DVector is a growable homogeneous array of T allocated in fixed-size
// blocks. Elements are addressed by flat index; callers that store
// fixed-stride tuples (e.g. 3 floats per vertex) compute index*stride
// themselves.
type DVector[T any] struct {
	blocks [][]T
	length int
}

// NewDVector creates an empty DVector.
func NewDVector[T any]() *DVector[T] {
	return &DVector[T]{}
}

// Len returns the current element count.
func (v *DVector[T]) Len() int {
	return v.length
}

// At returns the element at index i. Panics if i is out of range, like a
// plain slice would.
func (v *DVector[T]) At(i int) T {
	if i < 0 || i >= v.length {
		panic("container: DVector index out of range")
	}
	return v.blocks[i/dvectorBlockSize][i%dvectorBlockSize]
}

// Set overwrites the element at index i.
func (v *DVector[T]) Set(i int, val T) {
	if i < 0 || i >= v.length {
		panic("container: DVector index out of range")
	}
	v.blocks[i/dvectorBlockSize][i%dvectorBlockSize] = val
}

// Add appends val and returns its index.
func (v *DVector[T]) Add(val T) int {
	i := v.length
	v.ensure(i + 1)
	v.length = i + 1
	v.blocks[i/dvectorBlockSize][i%dvectorBlockSize] = val
	return i
}

// InsertAt writes val at index i, extending the vector first if i is at or
// beyond the current length. Intermediate slots introduced by the extension
// are zero-valued.
func (v *DVector[T]) InsertAt(i int, val T) {
	if i < 0 {
		panic("container: DVector insert at negative index")
	}
	if i >= v.length {
		v.ensure(i + 1)
		v.length = i + 1
	}
	v.blocks[i/dvectorBlockSize][i%dvectorBlockSize] = val
}

// Resize sets the length to n. Growing zero-fills the new slots. Shrinking
// releases whole trailing blocks and zeroes the tail of the last kept block
// so a later re-grow never exposes stale values.
func (v *DVector[T]) Resize(n int) {
	if n < 0 {
		panic("container: DVector resize to negative length")
	}
	if n >= v.length {
		v.ensure(n)
		v.length = n
		return
	}
	keepBlocks := (n + dvectorBlockSize - 1) / dvectorBlockSize
	for b := keepBlocks; b < len(v.blocks); b++ {
		v.blocks[b] = nil
	}
	v.blocks = v.blocks[:keepBlocks]
	if keepBlocks > 0 {
		var zero T
		last := v.blocks[keepBlocks-1]
		for i := n % dvectorBlockSize; i != 0 && i < dvectorBlockSize; i++ {
			last[i] = zero
		}
	}
	v.length = n
}

// Clone returns a deep copy.
func (v *DVector[T]) Clone() *DVector[T] {
	c := &DVector[T]{length: v.length}
	c.blocks = make([][]T, len(v.blocks))
	for i, b := range v.blocks {
		nb := make([]T, dvectorBlockSize)
		copy(nb, b)
		c.blocks[i] = nb
	}
	return c
}

// ensure grows backing storage to hold at least n elements.
func (v *DVector[T]) ensure(n int) {
	needBlocks := (n + dvectorBlockSize - 1) / dvectorBlockSize
	for len(v.blocks) < needBlocks {
		v.blocks = append(v.blocks, make([]T, dvectorBlockSize))
	}
}
