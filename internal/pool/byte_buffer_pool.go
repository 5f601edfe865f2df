// Package pool provides growable byte buffers and sync.Pool-backed reuse for
// the short-lived buffers limcode allocates per operation: parallel chunk
// workers and archive record reads. Encoder result buffers are never pooled
// because Finish transfers their ownership to the caller.
package pool

import "sync"

const (
	// ChunkBufferDefaultSize sizes fresh parallel-chunk buffers. A 100K
	// element chunk of 8-byte primitives is 800KiB, so 1MiB avoids growth in
	// the common case.
	ChunkBufferDefaultSize = 1024 * 1024
	// ChunkBufferMaxThreshold caps pooled chunk buffers; larger ones are
	// dropped to avoid retaining memory sized by one outlier chunk.
	ChunkBufferMaxThreshold = 8 * 1024 * 1024

	// RecordBufferDefaultSize sizes fresh archive record buffers.
	RecordBufferDefaultSize = 16 * 1024
	// RecordBufferMaxThreshold caps pooled archive record buffers.
	RecordBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a growable byte slice with explicit length and capacity
// control. It is the backing store for encoders and scratch buffers.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// WrapByteBuffer reuses prev's backing storage for a new buffer, clearing
// its length. This is the buffer-reuse entry point: repeated operations can
// hand their previous result back and avoid reallocation.
func WrapByteBuffer(prev []byte) *ByteBuffer {
	return &ByteBuffer{B: prev[:0]}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer while retaining its allocation.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Slice returns the buffer bytes in [start, end). Panics on out-of-bounds
// indices.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool.ByteBuffer.Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets the buffer length to n within the current capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool.ByteBuffer.SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// ExtendOrGrow lengthens the buffer by n bytes, reallocating if the current
// capacity is insufficient. The new bytes are uninitialized from the
// caller's perspective and must be overwritten.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		bb.Grow(n)
	}
	bb.B = bb.B[:curLen+n]
}

// Grow ensures capacity for requiredBytes additional bytes.
//
// Small buffers grow by a fixed step to amortize repeated primitive writes;
// larger buffers grow by 25% of capacity to balance memory use against
// reallocation frequency.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := RecordBufferDefaultSize
	if cap(bb.B) > 4*RecordBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool pools ByteBuffers with an upper capacity threshold beyond
// which returned buffers are discarded instead of retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize
// initial capacity and discarding returned buffers above maxThreshold.
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

// Put returns a ByteBuffer to the pool for reuse. Oversized buffers are
// dropped to prevent memory bloat.
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
	chunkPool  = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)
	recordPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
)

// GetChunkBuffer retrieves a buffer sized for one parallel serialization
// chunk.
func GetChunkBuffer() *ByteBuffer {
	return chunkPool.Get()
}

// PutChunkBuffer returns a chunk buffer to its pool.
func PutChunkBuffer(bb *ByteBuffer) {
	chunkPool.Put(bb)
}

// GetRecordBuffer retrieves a buffer for one archive record payload.
func GetRecordBuffer() *ByteBuffer {
	return recordPool.Get()
}

// PutRecordBuffer returns a record buffer to its pool.
func PutRecordBuffer(bb *ByteBuffer) {
	recordPool.Put(bb)
}
