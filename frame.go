package limcode

import (
	"fmt"

	"github.com/slonana-labs/limcode/compress"
	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/errs"
	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/hash"
)

// The wrapping layers below are pipeline stages around the core codec: they
// never change the wire format, only wrap the encoded bytes in a
// compression or integrity frame.

// MarshalCompressed encodes v and compresses the result with the given
// codec. Decode with UnmarshalCompressed using the same compression type.
func MarshalCompressed(v any, ct format.CompressionType) ([]byte, error) {
	payload, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}

	out, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("limcode: compress payload: %w", err)
	}

	return out, nil
}

// UnmarshalCompressed decompresses data with the given codec and decodes
// the result into v.
func UnmarshalCompressed(data []byte, ct format.CompressionType, v any) error {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return err
	}
	payload, err := codec.Decompress(data)
	if err != nil {
		return fmt.Errorf("limcode: decompress payload: %w", err)
	}

	return Unmarshal(payload, v)
}

// MarshalChecksummed encodes v and prepends an 8-byte little-endian
// xxHash64 digest of the encoded payload.
func MarshalChecksummed(v any) ([]byte, error) {
	payload, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	return sealFrame(payload), nil
}

// UnmarshalChecksummed verifies the 8-byte digest prefix and decodes the
// payload into v. Returns errs.ErrChecksumMismatch if the digest does not
// match.
func UnmarshalChecksummed(data []byte, v any) error {
	payload, err := openFrame(data)
	if err != nil {
		return err
	}

	return Unmarshal(payload, v)
}

// MarshalSealed combines both wrapping layers: the encoded payload is
// compressed, then the compressed bytes are checksummed. The digest covers
// the compressed bytes so corruption is detected before decompression.
func MarshalSealed(v any, ct format.CompressionType) ([]byte, error) {
	compressed, err := MarshalCompressed(v, ct)
	if err != nil {
		return nil, err
	}

	return sealFrame(compressed), nil
}

// UnmarshalSealed verifies the digest, decompresses and decodes into v.
func UnmarshalSealed(data []byte, ct format.CompressionType, v any) error {
	compressed, err := openFrame(data)
	if err != nil {
		return err
	}

	return UnmarshalCompressed(compressed, ct, v)
}

// sealFrame prepends the xxHash64 digest of payload.
func sealFrame(payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload))
	out = endian.Little().AppendUint64(out, hash.Sum64(payload))

	return append(out, payload...)
}

// openFrame verifies and strips the digest prefix, returning the payload as
// a sub-slice of data.
func openFrame(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, errs.ErrEOF
	}
	want := endian.Little().Uint64(data[:8])
	payload := data[8:]
	if hash.Sum64(payload) != want {
		return nil, errs.ErrChecksumMismatch
	}

	return payload, nil
}
