package wire

import (
	"math"
	"unsafe"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/pool"
)

// encoderDefaultCapacity sizes the fast buffer of a fresh Encoder. Most
// encoded values are small; the buffer grows on demand.
const encoderDefaultCapacity = 256

// Encoder accumulates primitive writes into a single byte sequence in the
// limcode wire format.
//
// The encoder maintains two write surfaces: an in-process growable fast
// buffer and a lazily created bulk sink. Primitive writes always land in the
// fast buffer. Payloads above format.FastPathThreshold engage the bulk sink;
// pending fast-buffer content is flushed into the sink first so output order
// matches write order. Finish returns the fast buffer directly (no extra
// copy) when the sink was never engaged.
//
// An Encoder serves exactly one encode operation and is consumed by Finish.
// It is not safe for concurrent use; each goroutine must own its own
// instance.
type Encoder struct {
	fast   *pool.ByteBuffer
	bulk   *bulkSink
	engine endian.EndianEngine
}

// NewEncoder creates an Encoder with a fresh fast buffer.
func NewEncoder() *Encoder {
	return &Encoder{
		fast:   pool.NewByteBuffer(encoderDefaultCapacity),
		engine: endian.Little(),
	}
}

// NewEncoderWithBuffer creates an Encoder that reuses prev's backing storage
// for its fast buffer, clearing any previous content. This is the explicit
// buffer-reuse entry point: pass the slice returned by a previous Finish to
// avoid reallocation across repeated encode operations.
func NewEncoderWithBuffer(prev []byte) *Encoder {
	return &Encoder{
		fast:   pool.WrapByteBuffer(prev),
		engine: endian.Little(),
	}
}

// WriteUint8 writes a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.fast.B = append(e.fast.B, v)
}

// WriteUint16 writes a 16-bit unsigned integer in little-endian order.
func (e *Encoder) WriteUint16(v uint16) {
	e.fast.B = e.engine.AppendUint16(e.fast.B, v)
}

// WriteUint32 writes a 32-bit unsigned integer in little-endian order.
func (e *Encoder) WriteUint32(v uint32) {
	e.fast.B = e.engine.AppendUint32(e.fast.B, v)
}

// WriteUint64 writes a 64-bit unsigned integer in little-endian order.
func (e *Encoder) WriteUint64(v uint64) {
	e.fast.B = e.engine.AppendUint64(e.fast.B, v)
}

// WriteInt8 writes an 8-bit signed integer as its two's-complement byte.
func (e *Encoder) WriteInt8(v int8) {
	e.WriteUint8(uint8(v))
}

// WriteInt16 writes a 16-bit signed integer in little-endian order.
func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

// WriteInt32 writes a 32-bit signed integer in little-endian order.
func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

// WriteInt64 writes a 64-bit signed integer in little-endian order.
func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

// WriteFloat32 writes the IEEE-754 bit pattern of v in little-endian order.
func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the IEEE-754 bit pattern of v in little-endian order.
func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

// WriteBool writes a boolean as one byte, 1 for true and 0 for false.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteUint8(1)
	} else {
		e.WriteUint8(0)
	}
}

// WriteBytes writes a raw span with no length prefix.
//
// The write strategy comes from format.ChooseStrategy: in-process spans go
// straight into the fast buffer, larger spans engage the bulk sink and are
// fed through it in chunks of format.BulkChunkSize bytes, never exceeding
// the sink's per-call limit.
func (e *Encoder) WriteBytes(data []byte) {
	if e.fast == nil {
		panic("wire: encoder already finished")
	}
	if len(data) == 0 {
		return
	}
	if format.ChooseStrategy(len(data), 0) == format.StrategyInProcess {
		e.fast.MustWrite(data)
		return
	}

	e.engageBulk(len(data))
	e.writeBulkChunked(data)
}

// WriteLengthPrefixedBytes writes an 8-byte little-endian byte count
// followed by the bytes. This is the encoding of byte buffers and strings
// in the wire format.
//
// In-process payloads (per format.ChooseStrategy) are written into the fast
// buffer in a single reservation covering prefix and payload, with no
// boundary crossing. Larger payloads flush pending fast-buffer content into
// the bulk sink, then route the prefix and the chunked payload through it.
func (e *Encoder) WriteLengthPrefixedBytes(data []byte) {
	if e.fast == nil {
		panic("wire: encoder already finished")
	}

	n := len(data)
	if format.ChooseStrategy(n, 0) == format.StrategyInProcess {
		start := e.fast.Len()
		e.fast.ExtendOrGrow(8 + n)
		dst := e.fast.Slice(start, start+8+n)
		e.engine.PutUint64(dst[:8], uint64(n))
		copy(dst[8:], data)

		return
	}

	e.engageBulk(8 + n)
	var prefix [8]byte
	e.engine.PutUint64(prefix[:], uint64(n))
	e.bulk.writeBytes(prefix[:])
	e.writeBulkChunked(data)
}

// WriteLengthPrefixedString writes s with the same layout as
// WriteLengthPrefixedBytes, without copying s into an intermediate slice.
func (e *Encoder) WriteLengthPrefixedString(s string) {
	if len(s) == 0 {
		e.WriteUint64(0)
		return
	}

	e.WriteLengthPrefixedBytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Size returns the total number of bytes written so far.
func (e *Encoder) Size() int {
	if e.fast == nil {
		panic("wire: encoder already finished")
	}

	n := e.fast.Len()
	if e.bulk != nil {
		n += e.bulk.size()
	}

	return n
}

// Finish returns the encoded bytes and consumes the encoder.
//
// If the bulk sink was never engaged the fast buffer is returned directly
// with no additional copy. Otherwise pending fast-buffer content is flushed
// and the sink's buffer is transferred to the caller. Any use of the
// encoder after Finish panics.
func (e *Encoder) Finish() []byte {
	if e.fast == nil {
		panic("wire: encoder already finished")
	}

	if e.bulk == nil {
		b := e.fast.Bytes()
		e.fast = nil

		return b
	}

	e.flushFast()
	b := e.bulk.finish()
	e.fast = nil
	e.bulk = nil

	return b
}

// engageBulk creates the bulk sink on first use, sized for the pending fast
// content plus upcoming bytes, and flushes the fast buffer into it so write
// order is preserved.
func (e *Encoder) engageBulk(upcoming int) {
	if e.bulk == nil {
		e.bulk = newBulkSink(e.fast.Len() + upcoming)
	}
	e.flushFast()
}

// flushFast moves pending fast-buffer content into the bulk sink.
func (e *Encoder) flushFast() {
	if e.fast.Len() == 0 {
		return
	}
	e.writeBulkChunked(e.fast.Bytes())
	e.fast.Reset()
}

// writeBulkChunked feeds data through the bulk sink in schedule-sized
// chunks. The sink must already be engaged.
func (e *Encoder) writeBulkChunked(data []byte) {
	chunk := format.BulkChunkSize(len(data))
	for off := 0; off < len(data); off += chunk {
		end := off + chunk
		if end > len(data) {
			end = len(data)
		}
		e.bulk.writeBytes(data[off:end])
	}
}
