// Package pool provides pooled byte buffers for the codec's two transient
// allocation hot spots: the writer's row-assembly buffer and the reader's
// chunk slabs.
package pool

import "sync"

const (
	// RowBufferDefaultSize is the initial capacity of a row-assembly buffer.
	RowBufferDefaultSize = 1024 * 16 // 16KiB
	// RowBufferMaxThreshold is the largest row-assembly buffer returned to
	// the pool; anything bigger is dropped for the GC to reclaim.
	RowBufferMaxThreshold = 1024 * 1024 // 1MiB

	// SlabBufferDefaultSize is the initial capacity of a chunk slab buffer.
	SlabBufferDefaultSize = 1024 * 1024 // 1MiB
	// SlabBufferMaxThreshold is the largest slab buffer returned to the pool.
	SlabBufferMaxThreshold = 1024 * 1024 * 32 // 32MiB
)

// ByteBuffer is a reusable byte slice with an exposed backing array.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow ensures the buffer holds exactly n bytes, reallocating only when the
// capacity is insufficient. Existing contents are not preserved.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B) < n {
		bb.B = make([]byte, n)
		return
	}
	bb.B = bb.B[:n]
}

var rowBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, RowBufferDefaultSize)}
	},
}

var slabBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, SlabBufferDefaultSize)}
	},
}

// GetRowBuffer obtains a row-assembly buffer from the pool.
func GetRowBuffer() *ByteBuffer {
	bb, _ := rowBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutRowBuffer returns a row-assembly buffer to the pool. Oversized buffers
// are dropped so the pool does not pin large allocations.
func PutRowBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > RowBufferMaxThreshold {
		return
	}
	rowBufferPool.Put(bb)
}

// GetSlabBuffer obtains a chunk slab buffer from the pool.
func GetSlabBuffer() *ByteBuffer {
	bb, _ := slabBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutSlabBuffer returns a chunk slab buffer to the pool.
func PutSlabBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > SlabBufferMaxThreshold {
		return
	}
	slabBufferPool.Put(bb)
}
