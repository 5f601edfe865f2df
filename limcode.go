// Package limcode implements a high-throughput binary codec whose output is
// byte-identical to the bincode fixed-int little-endian wire format.
//
// The codec walks arbitrary Go values with a type-directed visitor and
// delegates primitive writes to a wire.Encoder, which switches between an
// in-process fast buffer for small payloads and a chunked bulk-copy sink for
// large ones. Decoding mirrors this through wire.Decoder, including borrowed
// (zero-copy) reads over the input buffer.
//
// # Wire format
//
//   - Integers and floats: fixed-width little-endian (floats as IEEE-754 bit
//     patterns).
//   - Booleans: one byte, 0 or 1.
//   - Strings and byte slices: 8-byte little-endian byte count, then bytes.
//   - Other slices: 8-byte little-endian element count, then elements
//     back-to-back with no padding.
//   - Arrays: elements only, no count prefix.
//   - Pointers: 1-byte tag (0 nil, 1 present) followed by the payload.
//   - Structs: exported fields in declaration order, no tags, no padding.
//   - Enums (via Marshaler/Unmarshaler): 4-byte little-endian variant index
//     followed by the variant payload.
//
// Platform-width int, uint and uintptr are rejected: their size differs
// across targets, which is incompatible with a fixed wire layout. Use the
// sized types.
//
// # Basic usage
//
//	type Account struct {
//	    Balance uint64
//	    Owner   string
//	}
//
//	data, err := limcode.Marshal(Account{Balance: 42, Owner: "alice"})
//	if err != nil {
//	    return err
//	}
//
//	var acc Account
//	if err := limcode.Unmarshal(data, &acc); err != nil {
//	    return err
//	}
//
// # Fast paths
//
// Slices of fixed-layout primitives take a bulk path automatically: one
// length prefix plus one bulk copy through the size-tiered copy engine. The
// pod package exposes this path directly, including true zero-copy borrowed
// decoding, and MarshalParallel fans very large sequences out across
// workers while producing byte-identical output.
//
// # Concurrency
//
// Encoders and decoders are single-use and not safe for concurrent sharing.
// MarshalParallel and pod.MarshalSliceParallel are the only operations that
// spawn goroutines; all workers are joined before they return, so callers
// never observe concurrency.
package limcode

import (
	"fmt"
	"reflect"

	"github.com/slonana-labs/limcode/wire"
)

// Marshaler is implemented by types that control their own wire encoding.
//
// It is the vehicle for enum-like types: write a 4-byte little-endian
// variant index with enc.WriteUint32, then the variant payload. The visitor
// checks for Marshaler before any reflection-based handling, and honors
// pointer-receiver implementations even at non-addressable positions such as
// top-level values and map entries.
type Marshaler interface {
	MarshalLimcode(enc *wire.Encoder) error
}

// Unmarshaler is the decoding counterpart of Marshaler. Implementations
// reading an enum discriminant should return errs.ErrInvalidEnumTag
// (optionally wrapped) for unrecognized variant indices.
type Unmarshaler interface {
	UnmarshalLimcode(dec *wire.Decoder) error
}

// Marshal encodes v into the wire format and returns the encoded bytes.
func Marshal(v any) ([]byte, error) {
	return MarshalInto(nil, v)
}

// MarshalInto encodes v like Marshal but reuses prev's backing storage for
// the encoder's buffer, avoiding reallocation across repeated encode
// operations. Pass the slice returned by a previous call; its content is
// discarded.
func MarshalInto(prev []byte, v any) ([]byte, error) {
	enc := wire.NewEncoderWithBuffer(prev)
	if err := encodeValue(enc, reflect.ValueOf(v)); err != nil {
		return nil, err
	}

	return enc.Finish(), nil
}

// Unmarshal decodes data into the value pointed to by v, which must be a
// non-nil pointer. Decoding is forward-only and bounds-checked; malformed
// input surfaces one of the errs sentinels.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("limcode: unmarshal target must be a non-nil pointer, got %T", v)
	}

	dec := wire.NewDecoder(data)

	return decodeValue(dec, rv.Elem())
}
