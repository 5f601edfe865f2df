package wire

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slonana-labs/limcode/format"
)

// boundarySizes straddles every strategy boundary: the fast-path cutoff, the
// chunk schedule steps and the streaming-copy threshold.
var boundarySizes = []int{0, 1, 10, 127, 128, 255, 256, 1000, 4096, 4097, 16384, 65536, 65537, 1048576}

func randomPayload(t *testing.T, n int) []byte {
	t.Helper()

	buf := make([]byte, n)
	rng := rand.New(rand.NewSource(int64(n) + 1))
	_, err := rng.Read(buf)
	require.NoError(t, err)

	return buf
}

func TestEncoderPrimitives(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUint8(0xAB)
	enc.WriteUint16(0xBEEF)
	enc.WriteUint32(0xDEADBEEF)
	enc.WriteUint64(0x0102030405060708)
	enc.WriteInt8(-1)
	enc.WriteInt16(-2)
	enc.WriteInt32(-3)
	enc.WriteInt64(-4)
	enc.WriteFloat32(1.5)
	enc.WriteFloat64(-2.5)
	enc.WriteBool(true)
	enc.WriteBool(false)

	want := []byte{0xAB}
	want = append(want, 0xEF, 0xBE)
	want = append(want, 0xEF, 0xBE, 0xAD, 0xDE)
	want = append(want, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01)
	want = append(want, 0xFF)
	want = append(want, 0xFE, 0xFF)
	want = append(want, 0xFD, 0xFF, 0xFF, 0xFF)
	want = append(want, 0xFC, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	want = append(want, 0x00, 0x00, 0xC0, 0x3F) // float32(1.5)
	want = append(want, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0xC0) // float64(-2.5)
	want = append(want, 0x01, 0x00)

	require.Equal(t, want, enc.Finish())
}

func TestEncoderFloatBitPatterns(t *testing.T) {
	// A quiet NaN with a payload must survive bit-exactly.
	nanBits := uint64(0x7FF8000000000001)

	enc := NewEncoder()
	enc.WriteFloat64(math.Float64frombits(nanBits))
	enc.WriteFloat64(math.Inf(1))
	enc.WriteFloat64(math.Inf(-1))
	out := enc.Finish()

	dec := NewDecoder(out)
	got, err := dec.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, nanBits, math.Float64bits(got))

	pos, err := dec.ReadFloat64()
	require.NoError(t, err)
	require.True(t, math.IsInf(pos, 1))

	neg, err := dec.ReadFloat64()
	require.NoError(t, err)
	require.True(t, math.IsInf(neg, -1))
}

func TestEncoderWriteBytesAllSizes(t *testing.T) {
	for _, n := range boundarySizes {
		payload := randomPayload(t, n)

		enc := NewEncoder()
		enc.WriteBytes(payload)
		out := enc.Finish()
		require.True(t, bytes.Equal(payload, out), "size=%d", n)
	}
}

func TestEncoderLengthPrefixedAllSizes(t *testing.T) {
	for _, n := range boundarySizes {
		payload := randomPayload(t, n)

		enc := NewEncoder()
		enc.WriteLengthPrefixedBytes(payload)
		out := enc.Finish()

		require.Len(t, out, 8+n, "size=%d", n)
		dec := NewDecoder(out)
		got, err := dec.ReadLengthPrefixedBytes()
		require.NoError(t, err)
		require.True(t, bytes.Equal(payload, got), "size=%d", n)
	}
}

func TestEncoderOrderPreservedAcrossBulkEngagement(t *testing.T) {
	big := randomPayload(t, format.FastPathThreshold+1)

	enc := NewEncoder()
	enc.WriteUint32(0xAABBCCDD)
	enc.WriteBytes(big)
	enc.WriteUint8(0x42)
	out := enc.Finish()

	want := []byte{0xDD, 0xCC, 0xBB, 0xAA}
	want = append(want, big...)
	want = append(want, 0x42)
	require.True(t, bytes.Equal(want, out))
}

func TestEncoderBulkOutputMatchesFastPathOutput(t *testing.T) {
	// The same logical writes must produce identical bytes whether or not the
	// bulk sink was engaged in between.
	small := randomPayload(t, 100)
	big := randomPayload(t, 70_000)

	fast := NewEncoder()
	fast.WriteLengthPrefixedBytes(small)
	fastOut := fast.Finish()

	mixed := NewEncoder()
	mixed.WriteLengthPrefixedBytes(small)
	mixed.WriteBytes(big)
	mixedOut := mixed.Finish()

	require.True(t, bytes.Equal(fastOut, mixedOut[:len(fastOut)]))
	require.True(t, bytes.Equal(big, mixedOut[len(fastOut):]))
}

func TestEncoderEmptyString(t *testing.T) {
	enc := NewEncoder()
	enc.WriteLengthPrefixedString("")
	require.Equal(t, make([]byte, 8), enc.Finish())
}

func TestEncoderStringByteLength(t *testing.T) {
	s := "héllo, 世界"

	enc := NewEncoder()
	enc.WriteLengthPrefixedString(s)
	out := enc.Finish()

	dec := NewDecoder(out)
	n, err := dec.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(len(s)), n, "prefix counts bytes, not runes")
	require.Equal(t, []byte(s), out[8:])
}

func TestEncoderSize(t *testing.T) {
	enc := NewEncoder()
	require.Equal(t, 0, enc.Size())

	enc.WriteUint64(1)
	require.Equal(t, 8, enc.Size())

	big := make([]byte, format.FastPathThreshold+100)
	enc.WriteBytes(big)
	require.Equal(t, 8+len(big), enc.Size())
}

func TestEncoderUseAfterFinishPanics(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUint8(1)
	_ = enc.Finish()

	require.Panics(t, func() { enc.WriteBytes([]byte{1}) })
	require.Panics(t, func() { enc.WriteLengthPrefixedBytes([]byte{1}) })
	require.Panics(t, func() { _ = enc.Size() })
	require.Panics(t, func() { _ = enc.Finish() })
}

func TestNewEncoderWithBufferReuse(t *testing.T) {
	enc := NewEncoder()
	enc.WriteBytes(make([]byte, 1024))
	first := enc.Finish()

	enc2 := NewEncoderWithBuffer(first)
	enc2.WriteUint32(7)
	second := enc2.Finish()

	require.Equal(t, []byte{7, 0, 0, 0}, second)
	require.Same(t, &first[0], &second[0], "backing storage is reused")
}

func TestBulkSinkRejectsOversizedCall(t *testing.T) {
	s := newBulkSink(0)
	require.Panics(t, func() {
		s.writeBytes(make([]byte, format.MaxBulkCall+1))
	})

	// At the limit exactly is fine.
	s.writeBytes(make([]byte, format.MaxBulkCall))
	require.Equal(t, format.MaxBulkCall, s.size())
}
