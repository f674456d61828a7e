package container

import "testing"

func TestDVectorAddAndAt(t *testing.T) {
	v := NewDVector[int]()
	for i := 0; i < 5000; i++ {
		idx := v.Add(i * 3)
		if idx != i {
			t.Fatalf("Add returned index %d, want %d", idx, i)
		}
	}
	if v.Len() != 5000 {
		t.Fatalf("Len = %d, want 5000", v.Len())
	}
	for i := 0; i < 5000; i++ {
		if v.At(i) != i*3 {
			t.Fatalf("At(%d) = %d, want %d", i, v.At(i), i*3)
		}
	}
}

func TestDVectorInsertAt(t *testing.T) {
	v := NewDVector[float64]()

	// Insert at the current length appends.
	v.InsertAt(0, 1.5)
	if v.Len() != 1 || v.At(0) != 1.5 {
		t.Fatalf("append-style insert failed: len=%d", v.Len())
	}

	// Insert beyond the current length extends, zero-filling the gap.
	v.InsertAt(10, 2.5)
	if v.Len() != 11 {
		t.Fatalf("Len = %d, want 11", v.Len())
	}
	if v.At(5) != 0 {
		t.Fatalf("gap slot not zero: %v", v.At(5))
	}
	if v.At(10) != 2.5 {
		t.Fatalf("At(10) = %v, want 2.5", v.At(10))
	}

	// Insert below the current length overwrites.
	v.InsertAt(5, 9.0)
	if v.At(5) != 9.0 || v.Len() != 11 {
		t.Fatalf("overwrite insert failed: At(5)=%v len=%d", v.At(5), v.Len())
	}
}

func TestDVectorResize(t *testing.T) {
	v := NewDVector[int]()
	v.Resize(3000)
	if v.Len() != 3000 {
		t.Fatalf("Len = %d, want 3000", v.Len())
	}
	v.Set(2999, 7)

	// Shrink, then re-grow: the re-grown region must read as zero.
	v.Resize(100)
	if v.Len() != 100 {
		t.Fatalf("Len = %d, want 100", v.Len())
	}
	v.Resize(3000)
	if v.At(2999) != 0 {
		t.Fatalf("stale value survived shrink/grow: %d", v.At(2999))
	}
}

func TestDVectorBlockBoundary(t *testing.T) {
	v := NewDVector[int]()
	n := dvectorBlockSize*2 + 3
	for i := 0; i < n; i++ {
		v.Add(i)
	}
	for _, i := range []int{0, dvectorBlockSize - 1, dvectorBlockSize, n - 1} {
		if v.At(i) != i {
			t.Fatalf("At(%d) = %d across block boundary", i, v.At(i))
		}
	}
}
