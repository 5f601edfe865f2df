// Package pod implements the bulk fast path for slices of fixed-layout
// primitive elements.
//
// A fixed-layout primitive is a numeric type whose in-memory representation
// is stable, padding-free and directly reinterpretable as wire bytes on a
// little-endian host. For such slices the package bypasses the general
// visitor entirely: encoding is one length prefix plus one bulk copy, and
// the borrowed decode variants return typed views straight over the input
// bytes with no copy at all.
//
// On big-endian hosts the bulk reinterpretation is invalid; the owned
// entry points fall back to a byte-swapping path and the borrowed ones
// return errs.ErrNotLittleEndian.
package pod

import (
	"unsafe"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/errs"
	"github.com/slonana-labs/limcode/internal/fastcopy"
)

// Primitive is the closed set of element types eligible for the bulk fast
// path. Named types with these underlying types qualify.
type Primitive interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// MarshalSlice encodes values as an 8-byte little-endian element count
// followed by the raw element bytes, identical to what the general visitor
// produces for the same slice.
func MarshalSlice[T Primitive](values []T) []byte {
	return AppendSlice(nil, values)
}

// AppendSlice encodes values like MarshalSlice but reuses dst's backing
// storage when its capacity suffices, avoiding reallocation across repeated
// operations. The result always starts at offset 0 of the returned slice;
// dst's previous content is discarded.
func AppendSlice[T Primitive](dst []byte, values []T) []byte {
	elemSize := int(unsafe.Sizeof(*new(T)))
	byteLen := len(values) * elemSize
	total := 8 + byteLen

	var buf []byte
	if cap(dst) >= total {
		buf = dst[:total]
	} else {
		buf = make([]byte, total)
	}

	endian.Little().PutUint64(buf[:8], uint64(len(values)))
	if byteLen == 0 {
		return buf
	}

	fastcopy.Copy(buf[8:], rawBytes(values))
	if !endian.IsNativeLittleEndian() {
		swapElements(buf[8:], elemSize)
	}

	return buf
}

// UnmarshalSliceBorrowed validates the length prefix against the available
// bytes and returns a typed view over the payload with no copy.
//
// The returned slice aliases data: it is valid only as long as data is
// alive and must not be used if data is mutated. Returns
// errs.ErrBufferTooSmall when the declared element count exceeds the
// remaining bytes.
func UnmarshalSliceBorrowed[T Primitive](data []byte) ([]T, error) {
	if !endian.IsNativeLittleEndian() {
		return nil, errs.ErrNotLittleEndian
	}
	if len(data) < 8 {
		return nil, errs.ErrEOF
	}

	elemSize := uint64(unsafe.Sizeof(*new(T)))
	count := endian.Little().Uint64(data[:8])
	if count > uint64(len(data)-8)/elemSize {
		return nil, errs.ErrBufferTooSmall
	}
	if count == 0 {
		return []T{}, nil
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[8])), count), nil
}

// UnmarshalSliceBorrowedUnchecked is UnmarshalSliceBorrowed without the
// length-prefix bounds check, trading safety for throughput on hot decode
// paths.
//
// The caller MUST guarantee that data holds at least 8 bytes plus the
// declared element count times the element size, and that the host is
// little-endian. Violating either precondition is undefined behavior: the
// returned slice will reference memory outside data. There is no error
// channel; use UnmarshalSliceBorrowed unless the input is trusted.
func UnmarshalSliceBorrowedUnchecked[T Primitive](data []byte) []T {
	count := endian.Little().Uint64(data[:8])
	if count == 0 {
		return []T{}
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[8])), count)
}

// UnmarshalSlice decodes data into owned storage: the borrowed view plus
// exactly one bulk copy. The result does not alias data.
func UnmarshalSlice[T Primitive](data []byte) ([]T, error) {
	view, err := UnmarshalSliceBorrowed[T](data)
	if err == nil {
		out := make([]T, len(view))
		copy(out, view)

		return out, nil
	}
	if err != errs.ErrNotLittleEndian {
		return nil, err
	}

	return unmarshalSliceSwapped[T](data)
}

// unmarshalSliceSwapped is the big-endian-host fallback: bulk copy the wire
// bytes, then swap each element group in place to native order.
func unmarshalSliceSwapped[T Primitive](data []byte) ([]T, error) {
	if len(data) < 8 {
		return nil, errs.ErrEOF
	}

	elemSize := uint64(unsafe.Sizeof(*new(T)))
	count := endian.Little().Uint64(data[:8])
	if count > uint64(len(data)-8)/elemSize {
		return nil, errs.ErrBufferTooSmall
	}

	out := make([]T, count)
	if count == 0 {
		return out, nil
	}

	raw := rawBytes(out)
	fastcopy.Copy(raw, data[8:8+int(count)*int(elemSize)])
	swapElements(raw, int(elemSize))

	return out, nil
}

// rawBytes reinterprets a primitive slice as its backing bytes.
func rawBytes[T Primitive](values []T) []byte {
	byteLen := len(values) * int(unsafe.Sizeof(*new(T)))
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), byteLen)
}

// swapElements reverses the byte order of each elemSize-wide group in buf.
func swapElements(buf []byte, elemSize int) {
	if elemSize == 1 {
		return
	}
	for off := 0; off < len(buf); off += elemSize {
		for i, j := off, off+elemSize-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
}
