package wire

import (
	"math"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/errs"
	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/fastcopy"
)

// Decoder performs sequential, bounds-checked reads over one input buffer,
// mirroring the writes of an Encoder.
//
// The read position advances monotonically; there is no rollback. Reads
// return errs.ErrEOF when fewer bytes remain than requested and leave the
// position unchanged, so the caller can inspect Remaining after a failure.
//
// Borrowed reads return sub-slices of the input buffer. Their validity is
// bounded by the lifetime of that buffer: the caller must not use a
// borrowed slice after releasing or mutating the input.
//
// A Decoder serves exactly one decode operation and is not safe for
// concurrent use.
type Decoder struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewDecoder creates a Decoder reading from data. The decoder borrows data
// and never modifies it.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		data:   data,
		engine: endian.Little(),
	}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, errs.ErrEOF
	}
	v := d.data[d.pos]
	d.pos++

	return v, nil
}

// ReadUint16 reads a 16-bit little-endian unsigned integer.
func (d *Decoder) ReadUint16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, errs.ErrEOF
	}
	v := d.engine.Uint16(d.data[d.pos : d.pos+2])
	d.pos += 2

	return v, nil
}

// ReadUint32 reads a 32-bit little-endian unsigned integer.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, errs.ErrEOF
	}
	v := d.engine.Uint32(d.data[d.pos : d.pos+4])
	d.pos += 4

	return v, nil
}

// ReadUint64 reads a 64-bit little-endian unsigned integer.
func (d *Decoder) ReadUint64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, errs.ErrEOF
	}
	v := d.engine.Uint64(d.data[d.pos : d.pos+8])
	d.pos += 8

	return v, nil
}

// ReadInt8 reads an 8-bit signed integer.
func (d *Decoder) ReadInt8() (int8, error) {
	v, err := d.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a 16-bit little-endian signed integer.
func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a 32-bit little-endian signed integer.
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a 64-bit little-endian signed integer.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads a little-endian IEEE-754 single-precision bit pattern.
// NaN payloads and infinities round-trip bit-exactly.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a little-endian IEEE-754 double-precision bit pattern.
// NaN payloads and infinities round-trip bit-exactly.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads one byte and interprets 0 as false and 1 as true. Any
// other byte value returns errs.ErrInvalidBool.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadUint8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		d.pos-- // leave position at the offending byte
		return false, errs.ErrInvalidBool
	}
}

// ReadBytes copies len(out) bytes into out, advancing the position. The
// copy is fed through the copy engine in the same chunk schedule the
// encoder uses for bulk writes.
func (d *Decoder) ReadBytes(out []byte) error {
	n := len(out)
	if d.Remaining() < n {
		return errs.ErrEOF
	}

	src := d.data[d.pos : d.pos+n]
	chunk := format.BulkChunkSize(n)
	for off := 0; off < n; off += chunk {
		end := off + chunk
		if end > n {
			end = n
		}
		fastcopy.Copy(out[off:end], src[off:end])
	}
	d.pos += n

	return nil
}

// ReadBorrowedBytes returns the next n bytes as a sub-slice of the input
// buffer with no copy. The returned slice must not outlive the input
// buffer and must not be used if the input is mutated.
func (d *Decoder) ReadBorrowedBytes(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, errs.ErrEOF
	}
	b := d.data[d.pos : d.pos+n : d.pos+n]
	d.pos += n

	return b, nil
}

// ReadLengthPrefixedBytes reads an 8-byte little-endian byte count followed
// by that many bytes, returning them as a newly allocated owned slice.
func (d *Decoder) ReadLengthPrefixedBytes() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if err := d.ReadBytes(out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadLengthPrefixedBorrowed reads an 8-byte byte count and returns the
// payload as a borrowed sub-slice of the input buffer. See
// ReadBorrowedBytes for the lifetime contract.
func (d *Decoder) ReadLengthPrefixedBorrowed() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}

	return d.ReadBorrowedBytes(n)
}

// readLength reads an 8-byte count prefix and validates that it fits the
// remaining input, leaving the position before the prefix on failure.
func (d *Decoder) readLength() (int, error) {
	start := d.pos
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	if v > uint64(d.Remaining()) {
		d.pos = start
		return 0, errs.ErrEOF
	}

	return int(v), nil
}
