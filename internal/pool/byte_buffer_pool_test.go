package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_Resize(t *testing.T) {
	bb := NewByteBuffer(8)

	b := bb.Resize(4)
	require.Len(t, b, 4)
	assert.Equal(t, 8, bb.Cap(), "resize within capacity keeps the allocation")

	copy(b, "abcd")
	require.Equal(t, []byte("abcd"), bb.Bytes())

	b = bb.Resize(32)
	require.Len(t, b, 32)
	require.GreaterOrEqual(t, bb.Cap(), 32)

	bb.Reset()
	require.Zero(t, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 32)

	require.Panics(t, func() { bb.Resize(-1) })
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	bb.Resize(128)
	p.Put(bb)

	// Oversized buffers are dropped, so the next Get cannot return it with its 128 bytes of capacity.
	next := p.Get()
	require.NotSame(t, bb, next)
	require.Zero(t, next.Len())

	p.Put(nil)
}

func TestByteBufferPool_ResetOnPut(t *testing.T) {
	p := NewByteBufferPool(16, 0)

	bb := p.Get()
	bb.Resize(10)
	p.Put(bb)

	require.Zero(t, bb.Len())
}

func TestDefaultPools(t *testing.T) {
	w := GetWindowBuffer()
	require.GreaterOrEqual(t, w.Cap(), WindowBufferDefaultSize)
	PutWindowBuffer(w)

	m := GetMetadataBuffer()
	require.GreaterOrEqual(t, m.Cap(), 0)
	PutMetadataBuffer(m)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetWindowBuffer()
				b := bb.Resize(i + 1)
				b[0] = byte(i)
				PutWindowBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
