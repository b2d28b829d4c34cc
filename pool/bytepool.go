// File: pool/bytepool.go
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"
)

// BytePool hands out buffers of one fixed size.
type BytePool struct {
	pool  sync.Pool // of *[]byte
	size  int
	inUse atomic.Int64
}

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	b := &BytePool{size: size}
	b.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return b
}

// Size returns the buffer size.
func (b *BytePool) Size() int { return b.size }

// InUse returns the number of buffers handed out and not yet returned.
func (b *BytePool) InUse() int64 { return b.inUse.Load() }

// Get returns a buffer of Size bytes.
func (b *BytePool) Get() []byte {
	b.inUse.Add(1)
	return (*b.pool.Get().(*[]byte))[:b.size]
}

// Put returns buf to the pool. Buffers of a different capacity did not come
// from this pool and are dropped.
func (b *BytePool) Put(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.inUse.Add(-1)
	buf = buf[:b.size]
	b.pool.Put(&buf)
}
