package engine

// Allocator supplies the backing memory for decode and encode results.
// Every successful call allocates exactly one block that backs all of the
// result's slices; the caller returns it with exactly one Free.
//
// Alloc must return a zeroed slice of length n.
type Allocator interface {
	Alloc(n int) []byte
	Free(b []byte)
}

type heapAllocator struct{}

func (heapAllocator) Alloc(n int) []byte { return make([]byte, n) }

func (heapAllocator) Free([]byte) {}

// DefaultAllocator is used when options carry a nil Allocator.
var DefaultAllocator Allocator = heapAllocator{}
