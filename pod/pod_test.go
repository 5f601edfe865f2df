package pod

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/errs"
)

func TestMarshalSliceWireLayout(t *testing.T) {
	values := make([]uint64, 1000)
	for i := range values {
		values[i] = uint64(i)
	}

	out := MarshalSlice(values)
	require.Len(t, out, 8+1000*8)

	// 1000 little-endian, then element 0.
	require.Equal(t, []byte{0xE8, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, out[:8])
	require.Equal(t, uint64(0), endian.Little().Uint64(out[8:16]))
	require.Equal(t, uint64(999), endian.Little().Uint64(out[8+999*8:]))
}

func TestMarshalSliceEmpty(t *testing.T) {
	require.Equal(t, make([]byte, 8), MarshalSlice([]uint8{}))
	require.Equal(t, make([]byte, 8), MarshalSlice([]float64(nil)))
}

func TestAppendSliceReusesBacking(t *testing.T) {
	values := []uint32{1, 2, 3}
	first := MarshalSlice(values)

	dst := make([]byte, 0, 64)
	out := AppendSlice(dst, values)
	require.Equal(t, first, out)
	require.Same(t, &dst[:1][0], &out[0], "capacity-sufficient dst is reused")

	// Too-small dst forces a fresh allocation.
	tiny := make([]byte, 0, 4)
	out2 := AppendSlice(tiny, values)
	require.Equal(t, first, out2)
}

func TestUnmarshalSliceRoundTrip(t *testing.T) {
	i8s := []int8{-128, -1, 0, 1, 127}
	got8, err := UnmarshalSlice[int8](MarshalSlice(i8s))
	require.NoError(t, err)
	require.Equal(t, i8s, got8)

	u64s := []uint64{0, 1, math.MaxUint64}
	got64, err := UnmarshalSlice[uint64](MarshalSlice(u64s))
	require.NoError(t, err)
	require.Equal(t, u64s, got64)

	f64s := []float64{0, -1.5, math.Inf(1), math.Float64frombits(0x7FF8000000000001)}
	gotF, err := UnmarshalSlice[float64](MarshalSlice(f64s))
	require.NoError(t, err)
	require.Equal(t, math.Float64bits(f64s[3]), math.Float64bits(gotF[3]), "NaN payload survives")
	require.Equal(t, f64s[:3], gotF[:3])
}

func TestUnmarshalSliceOwnedDoesNotAlias(t *testing.T) {
	data := MarshalSlice([]uint16{7, 8, 9})
	owned, err := UnmarshalSlice[uint16](data)
	require.NoError(t, err)

	data[8] = 0xFF
	require.Equal(t, uint16(7), owned[0])
}

func TestUnmarshalSliceBorrowedAliases(t *testing.T) {
	if !endian.IsNativeLittleEndian() {
		t.Skip("borrowed decode requires a little-endian host")
	}

	data := MarshalSlice([]uint32{100, 200})
	view, err := UnmarshalSliceBorrowed[uint32](data)
	require.NoError(t, err)
	require.Equal(t, []uint32{100, 200}, view)

	endian.Little().PutUint32(data[8:12], 999)
	require.Equal(t, uint32(999), view[0], "borrowed view shares the input buffer")
}

func TestUnmarshalSliceBorrowedErrors(t *testing.T) {
	if !endian.IsNativeLittleEndian() {
		t.Skip("borrowed decode requires a little-endian host")
	}

	_, err := UnmarshalSliceBorrowed[uint64]([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrEOF)

	// Count claims 3 elements but only 2 fit.
	data := MarshalSlice([]uint64{1, 2})
	endian.Little().PutUint64(data[:8], 3)
	_, err = UnmarshalSliceBorrowed[uint64](data)
	require.ErrorIs(t, err, errs.ErrBufferTooSmall)

	// A huge count must fail the bounds check, not wrap around.
	endian.Little().PutUint64(data[:8], math.MaxUint64/8)
	_, err = UnmarshalSliceBorrowed[uint64](data)
	require.ErrorIs(t, err, errs.ErrBufferTooSmall)
}

func TestUnmarshalSliceBorrowedEmpty(t *testing.T) {
	if !endian.IsNativeLittleEndian() {
		t.Skip("borrowed decode requires a little-endian host")
	}

	view, err := UnmarshalSliceBorrowed[int32](make([]byte, 8))
	require.NoError(t, err)
	require.Empty(t, view)
}

func TestUnmarshalSliceBorrowedUncheckedMatchesChecked(t *testing.T) {
	if !endian.IsNativeLittleEndian() {
		t.Skip("borrowed decode requires a little-endian host")
	}

	values := []int64{-5, 0, 5, math.MaxInt64}
	data := MarshalSlice(values)

	checked, err := UnmarshalSliceBorrowed[int64](data)
	require.NoError(t, err)
	unchecked := UnmarshalSliceBorrowedUnchecked[int64](data)
	require.Equal(t, checked, unchecked)
}

type temperature float32

func TestNamedPrimitiveTypes(t *testing.T) {
	values := []temperature{36.6, -40, 0}
	got, err := UnmarshalSlice[temperature](MarshalSlice(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}
