package wire

import (
	"fmt"

	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/fastcopy"
	"github.com/slonana-labs/limcode/internal/pool"
)

// bulkSink is the large-payload backend of an Encoder. It mirrors the
// reference system's accelerator boundary: lazily created on first use above
// the fast-path threshold, exclusively owned by one Encoder, released when
// finish transfers its buffer out.
//
// Single calls are hard-capped at format.MaxBulkCall bytes. The reference
// accelerator corrupts memory on larger calls, so the cap is enforced here
// as an assertion: exceeding it is a caller bug, not a recoverable error.
// Allocation failure inside the sink is likewise fatal (the runtime aborts);
// there is no safe degraded mode once the backing allocator has failed.
type bulkSink struct {
	buf *pool.ByteBuffer
}

// newBulkSink creates a sink pre-sized for capacityHint bytes.
func newBulkSink(capacityHint int) *bulkSink {
	if capacityHint < pool.RecordBufferDefaultSize {
		capacityHint = pool.RecordBufferDefaultSize
	}

	return &bulkSink{buf: pool.NewByteBuffer(capacityHint)}
}

// writeBytes appends one pre-chunked span through the copy engine.
func (s *bulkSink) writeBytes(p []byte) {
	if len(p) > format.MaxBulkCall {
		panic(fmt.Sprintf("wire: bulk call of %d bytes exceeds the %d-byte limit; caller must pre-chunk", len(p), format.MaxBulkCall))
	}
	if len(p) == 0 {
		return
	}

	start := s.buf.Len()
	s.buf.ExtendOrGrow(len(p))
	fastcopy.Copy(s.buf.Slice(start, start+len(p)), p)
}

// size returns the number of bytes accumulated in the sink.
func (s *bulkSink) size() int {
	return s.buf.Len()
}

// finish transfers ownership of the accumulated buffer to the caller and
// releases the sink. The sink must not be used afterwards.
func (s *bulkSink) finish() []byte {
	b := s.buf.Bytes()
	s.buf = nil

	return b
}
