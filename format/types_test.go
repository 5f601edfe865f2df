package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChooseStrategy(t *testing.T) {
	tests := []struct {
		name      string
		byteLen   int
		elemCount int
		want      Strategy
	}{
		{"tiny payload", 16, 2, StrategyInProcess},
		{"at fast path threshold", FastPathThreshold, 512, StrategyInProcess},
		{"one past fast path threshold", FastPathThreshold + 1, 513, StrategyBulk},
		{"large bulk payload", 1 << 20, 1 << 17, StrategyBulk},
		{"at parallel threshold", 8 * ParallelThreshold, ParallelThreshold, StrategyParallel},
		{"one below parallel threshold", 8 * (ParallelThreshold - 1), ParallelThreshold - 1, StrategyBulk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ChooseStrategy(tt.byteLen, tt.elemCount))
		})
	}
}

func TestBulkChunkSize(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{FastPathThreshold, FastPathThreshold},
		{FastPathThreshold + 1, 16 * 1024},
		{64 * 1024, 16 * 1024},
		{64*1024 + 1, 32 * 1024},
		{1024 * 1024, 32 * 1024},
		{1024*1024 + 1, MaxBulkCall},
		{1 << 30, MaxBulkCall},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, BulkChunkSize(tt.total), "total=%d", tt.total)
	}
}

func TestBulkChunkSizeNeverExceedsMaxBulkCall(t *testing.T) {
	for _, total := range []int{1, 4096, 4097, 16384, 65536, 65537, 1 << 20, 1<<20 + 1, 1 << 26} {
		require.LessOrEqual(t, BulkChunkSize(total), MaxBulkCall, "total=%d", total)
	}
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "InProcess", StrategyInProcess.String())
	require.Equal(t, "Bulk", StrategyBulk.String())
	require.Equal(t, "Parallel", StrategyParallel.String())
	require.Equal(t, "Unknown", Strategy(0xFF).String())
}

func TestCompressionTypeString(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0xFF).String())
}
