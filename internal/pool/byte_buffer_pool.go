package pool

import "sync"

// Default buffer sizes.
const (
	WindowBufferDefaultSize    = 1024 * 64       // 64KiB
	WindowBufferMaxThreshold   = 1024 * 1024 * 4 // 4MiB
	MetadataBufferDefaultSize  = 1024 * 16       // 16KiB
	MetadataBufferMaxThreshold = 1024 * 1024     // 1MiB
)

// ByteBuffer is a reusable byte slice.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Resize sets the length of the buffer to n, reallocating when the capacity
// is too small. The content is unspecified afterwards; callers fill it, for
// example with io.ReaderAt.ReadAt.
func (bb *ByteBuffer) Resize(n int) []byte {
	if n < 0 {
		panic("Resize: negative length")
	}

	if cap(bb.B) < n {
		bb.B = make([]byte, n)
	}
	bb.B = bb.B[:n]

	return bb.B
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers grown past
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	windowPool   = NewByteBufferPool(WindowBufferDefaultSize, WindowBufferMaxThreshold)
	metadataPool = NewByteBufferPool(MetadataBufferDefaultSize, MetadataBufferMaxThreshold)
)

// GetWindowBuffer retrieves a buffer for raw data read windows.
func GetWindowBuffer() *ByteBuffer {
	return windowPool.Get()
}

// PutWindowBuffer returns a raw data window buffer.
func PutWindowBuffer(bb *ByteBuffer) {
	windowPool.Put(bb)
}

// GetMetadataBuffer retrieves a buffer for segment lead-ins and metadata blocks.
func GetMetadataBuffer() *ByteBuffer {
	return metadataPool.Get()
}

// PutMetadataBuffer returns a metadata buffer.
func PutMetadataBuffer(bb *ByteBuffer) {
	metadataPool.Put(bb)
}
