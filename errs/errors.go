// Package errs defines the sentinel errors shared across limcode packages.
//
// All recoverable decode failures surface as one of these sentinels, possibly
// wrapped with positional context via fmt.Errorf("...: %w", err). Callers
// should match with errors.Is rather than string comparison.
package errs

import "errors"

var (
	// ErrEOF is returned when a read requests more bytes than remain in the
	// input buffer.
	ErrEOF = errors.New("limcode: unexpected end of input")

	// ErrInvalidBool is returned when a boolean byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("limcode: invalid bool byte")

	// ErrInvalidOptionTag is returned when an option tag byte is neither
	// 0 (absent) nor 1 (present).
	ErrInvalidOptionTag = errors.New("limcode: invalid option tag")

	// ErrInvalidEnumTag is returned when a 4-byte enum discriminant does not
	// name a known variant. Unmarshaler implementations return it for
	// unrecognized variant indices.
	ErrInvalidEnumTag = errors.New("limcode: invalid enum discriminant")

	// ErrInvalidUTF8 is returned when decoded string bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("limcode: string bytes are not valid UTF-8")

	// ErrBufferTooSmall is returned by the checked zero-copy path when the
	// declared element count does not fit within the remaining input bytes.
	ErrBufferTooSmall = errors.New("limcode: declared length exceeds available bytes")

	// ErrChecksumMismatch is returned when a checksummed frame fails
	// verification.
	ErrChecksumMismatch = errors.New("limcode: checksum mismatch")

	// ErrNotLittleEndian is returned by zero-copy operations on hosts whose
	// native byte order does not match the little-endian wire format.
	ErrNotLittleEndian = errors.New("limcode: host is not little-endian")
)
