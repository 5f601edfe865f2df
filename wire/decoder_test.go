package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slonana-labs/limcode/errs"
)

func TestDecoderPrimitiveRoundTrip(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUint8(200)
	enc.WriteUint16(50_000)
	enc.WriteUint32(4_000_000_000)
	enc.WriteUint64(1 << 60)
	enc.WriteInt8(-128)
	enc.WriteInt16(-32768)
	enc.WriteInt32(-2147483648)
	enc.WriteInt64(-9223372036854775808)
	enc.WriteBool(true)

	dec := NewDecoder(enc.Finish())

	u8, err := dec.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(200), u8)

	u16, err := dec.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(50_000), u16)

	u32, err := dec.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(4_000_000_000), u32)

	u64, err := dec.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<60), u64)

	i8, err := dec.ReadInt8()
	require.NoError(t, err)
	require.Equal(t, int8(-128), i8)

	i16, err := dec.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(-32768), i16)

	i32, err := dec.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-2147483648), i32)

	i64, err := dec.ReadInt64()
	require.NoError(t, err)
	require.Equal(t, int64(-9223372036854775808), i64)

	b, err := dec.ReadBool()
	require.NoError(t, err)
	require.True(t, b)
	require.Equal(t, 0, dec.Remaining())
}

func TestDecoderEOFLeavesPosition(t *testing.T) {
	dec := NewDecoder([]byte{1, 2, 3})

	_, err := dec.ReadUint64()
	require.ErrorIs(t, err, errs.ErrEOF)
	require.Equal(t, 3, dec.Remaining(), "failed read does not consume input")

	_, err = dec.ReadUint32()
	require.ErrorIs(t, err, errs.ErrEOF)

	v, err := dec.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0201), v)
}

func TestDecoderInvalidBool(t *testing.T) {
	dec := NewDecoder([]byte{2})
	_, err := dec.ReadBool()
	require.ErrorIs(t, err, errs.ErrInvalidBool)
	require.Equal(t, 1, dec.Remaining(), "position stays at the offending byte")
}

func TestDecoderReadBytesChunked(t *testing.T) {
	for _, n := range []int{1, 4096, 4097, 65537, 100_000} {
		payload := randomPayload(t, n)
		dec := NewDecoder(payload)

		out := make([]byte, n)
		require.NoError(t, dec.ReadBytes(out))
		require.True(t, bytes.Equal(payload, out), "size=%d", n)
		require.Equal(t, 0, dec.Remaining())
	}
}

func TestDecoderReadBytesEOF(t *testing.T) {
	dec := NewDecoder([]byte{1, 2})
	err := dec.ReadBytes(make([]byte, 3))
	require.ErrorIs(t, err, errs.ErrEOF)
	require.Equal(t, 2, dec.Remaining())
}

func TestDecoderBorrowedAliasesInput(t *testing.T) {
	input := []byte{10, 20, 30, 40}
	dec := NewDecoder(input)

	view, err := dec.ReadBorrowedBytes(4)
	require.NoError(t, err)
	require.Equal(t, input, view)

	input[0] = 99
	require.Equal(t, byte(99), view[0], "borrowed view shares the input buffer")
}

func TestDecoderBorrowedNegativeCount(t *testing.T) {
	dec := NewDecoder([]byte{1})
	_, err := dec.ReadBorrowedBytes(-1)
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestDecoderOwnedDoesNotAlias(t *testing.T) {
	enc := NewEncoder()
	enc.WriteLengthPrefixedBytes([]byte{1, 2, 3})
	input := enc.Finish()

	dec := NewDecoder(input)
	owned, err := dec.ReadLengthPrefixedBytes()
	require.NoError(t, err)

	input[8] = 0xFF
	require.Equal(t, byte(1), owned[0], "owned copy is immune to input mutation")
}

func TestDecoderLengthPrefixOverrun(t *testing.T) {
	// Prefix claims 100 bytes, only 2 follow.
	enc := NewEncoder()
	enc.WriteUint64(100)
	enc.WriteUint16(0xFFFF)
	dec := NewDecoder(enc.Finish())

	_, err := dec.ReadLengthPrefixedBytes()
	require.ErrorIs(t, err, errs.ErrEOF)
	require.Equal(t, 10, dec.Remaining(), "position restored before the prefix")

	_, err = dec.ReadLengthPrefixedBorrowed()
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestDecoderHugeLengthPrefixRejectedWithoutAllocation(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUint64(1 << 62)
	dec := NewDecoder(enc.Finish())

	// Must fail on the bounds check, not attempt a 4EiB allocation.
	_, err := dec.ReadLengthPrefixedBytes()
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestDecoderBorrowedLengthPrefixed(t *testing.T) {
	payload := randomPayload(t, 512)
	enc := NewEncoder()
	enc.WriteLengthPrefixedBytes(payload)
	input := enc.Finish()

	dec := NewDecoder(input)
	view, err := dec.ReadLengthPrefixedBorrowed()
	require.NoError(t, err)
	require.True(t, bytes.Equal(payload, view))
	require.Same(t, &input[8], &view[0], "borrowed payload points into the input")
}
