package pod

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slonana-labs/limcode/format"
)

func TestMarshalSliceParallelBelowThreshold(t *testing.T) {
	values := make([]uint32, 1000)
	for i := range values {
		values[i] = uint32(i * 3)
	}

	require.Equal(t, MarshalSlice(values), MarshalSliceParallel(values))
}

func TestMarshalSliceParallelMatchesSequential(t *testing.T) {
	values := make([]uint32, format.ParallelThreshold+12345)
	for i := range values {
		values[i] = uint32(i)
	}

	sequential := MarshalSlice(values)
	parallel := MarshalSliceParallel(values)
	require.True(t, bytes.Equal(sequential, parallel))
}

func TestMarshalSliceParallelExactChunkMultiple(t *testing.T) {
	// Element count divides evenly into chunks, no short tail chunk.
	values := make([]uint8, format.ParallelThreshold)
	for i := range values {
		values[i] = uint8(i)
	}

	require.True(t, bytes.Equal(MarshalSlice(values), MarshalSliceParallel(values)))
}

func TestMarshalSliceParallelPrefaultedOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates ~70MB")
	}

	// Output exceeds the prefault threshold, exercising the page-touch pass
	// before the count prefix and element copies land.
	values := make([]uint64, 3_000_000)
	for i := range values {
		values[i] = uint64(i) * 0x9E3779B97F4A7C15
	}

	sequential := MarshalSlice(values)
	parallel := MarshalSliceParallel(values)
	require.True(t, bytes.Equal(sequential, parallel))
}
