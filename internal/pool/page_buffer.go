// Package pool recycles the page image buffers the simulator assembles for
// baseline compression and deduplication.
package pool

import (
	"sync"
)

const (
	// DefaultPageBufferSize fits one 4 KiB page.
	DefaultPageBufferSize = 4096
	// PageBufferMaxThreshold is the largest buffer kept by the default pool.
	PageBufferMaxThreshold = 64 * 1024
)

// PageBuffer accumulates the raw bytes of the lines of one page.
type PageBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewPageBuffer returns an empty buffer with room for size bytes.
func NewPageBuffer(size int) *PageBuffer {
	return &PageBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the buffered page image.
func (pb *PageBuffer) Bytes() []byte { return pb.B }

// Len returns the number of buffered bytes.
func (pb *PageBuffer) Len() int { return len(pb.B) }

// Cap returns the capacity of the buffer.
func (pb *PageBuffer) Cap() int { return cap(pb.B) }

// Reset empties the buffer and keeps its memory.
func (pb *PageBuffer) Reset() { pb.B = pb.B[:0] }

// Write appends data, growing the buffer when needed.
func (pb *PageBuffer) Write(data []byte) (int, error) {
	pb.B = append(pb.B, data...)
	return len(data), nil
}

// IsZero reports whether every buffered byte is zero. An empty buffer is zero.
func (pb *PageBuffer) IsZero() bool {
	for _, b := range pb.B {
		if b != 0 {
			return false
		}
	}

	return true
}

// PageBufferPool is a sync.Pool of PageBuffers. Buffers grown beyond
// maxThreshold are dropped on Put instead of being retained.
type PageBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPageBufferPool returns a pool handing out buffers of defaultSize.
// A maxThreshold of 0 keeps every buffer.
func NewPageBufferPool(defaultSize, maxThreshold int) *PageBufferPool {
	return &PageBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewPageBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *PageBufferPool) Get() *PageBuffer {
	pb, _ := p.pool.Get().(*PageBuffer)
	return pb
}

// Put returns pb to the pool. Nil buffers are ignored.
func (p *PageBufferPool) Put(pb *PageBuffer) {
	if pb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(pb.B) > p.maxThreshold {
		return
	}

	pb.Reset()
	p.pool.Put(pb)
}

var defaultPool = NewPageBufferPool(DefaultPageBufferSize, PageBufferMaxThreshold)

// GetPageBuffer takes a buffer from the default pool.
func GetPageBuffer() *PageBuffer {
	return defaultPool.Get()
}

// PutPageBuffer returns a buffer to the default pool.
func PutPageBuffer(pb *PageBuffer) {
	defaultPool.Put(pb)
}
