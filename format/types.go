// Package format defines the wire-format constants and the size-based
// strategy selection shared by every limcode entry point.
//
// The thresholds below are defined once here so that the encoder, decoder,
// copy engine and parallel codec all branch on the same numbers. They come
// from the reference implementation and are load-bearing for byte-exact
// compatibility testing at the path boundaries (4096/4097, 65536/65537).
package format

// Size thresholds for strategy selection.
const (
	// FastPathThreshold is the largest payload written directly into the
	// encoder's in-process fast buffer. Larger payloads engage the bulk sink.
	FastPathThreshold = 4096

	// StreamingThreshold is the copy size above which the copy engine
	// switches from a cache-resident copy to the streaming block copy.
	StreamingThreshold = 64 * 1024

	// PrefaultThreshold is the destination size above which every page is
	// touched before a bulk copy so the copy loop does not stall on faults.
	PrefaultThreshold = 16 * 1024 * 1024

	// MaxBulkCall is the hard cap on a single bulk-sink call. The reference
	// accelerator corrupts memory on larger single calls under aggressive
	// optimization; callers must pre-chunk. This is a safety constraint, not
	// a tuning knob.
	MaxBulkCall = 48 * 1024

	// ParallelThreshold is the minimum element count for the parallel
	// chunked codec. Below it, goroutine dispatch overhead outweighs the
	// benefit and the sequential path is used.
	ParallelThreshold = 1_000_000

	// ParallelChunkElems is the number of elements each parallel worker
	// serializes independently.
	ParallelChunkElems = 100_000
)

// Wire-format tag bytes.
const (
	OptionAbsent  = 0x00 // option tag: no payload follows
	OptionPresent = 0x01 // option tag: payload follows
)

type (
	// Strategy is the tagged outcome of size-based strategy selection.
	Strategy uint8

	// CompressionType selects the codec used by the optional compression
	// wrapping layer. It never affects the core wire format.
	CompressionType uint8
)

const (
	// StrategyInProcess buffers bytes in the encoder's fast buffer with no
	// boundary crossing.
	StrategyInProcess Strategy = 0x1
	// StrategyBulk routes the payload through the chunked bulk-copy sink.
	StrategyBulk Strategy = 0x2
	// StrategyParallel fans a homogeneous sequence out across workers.
	StrategyParallel Strategy = 0x3
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// ChooseStrategy returns the write strategy for a payload of byteLen bytes
// holding elemCount elements. It is the single branching point for the
// "small vs. large" decisions that the encoder, the POD path and the
// parallel codec consume.
func ChooseStrategy(byteLen int, elemCount int) Strategy {
	if elemCount >= ParallelThreshold {
		return StrategyParallel
	}
	if byteLen > FastPathThreshold {
		return StrategyBulk
	}

	return StrategyInProcess
}

// BulkChunkSize returns the per-call chunk size for feeding total bytes
// through the bulk sink. The schedule escalates with payload size while
// never exceeding MaxBulkCall:
//
//	total ≤ 4KiB   → whole payload (no chunking)
//	total ≤ 64KiB  → 16KiB chunks
//	total ≤ 1MiB   → 32KiB chunks
//	larger         → 48KiB chunks
func BulkChunkSize(total int) int {
	switch {
	case total <= FastPathThreshold:
		return total
	case total <= 64*1024:
		return 16 * 1024
	case total <= 1024*1024:
		return 32 * 1024
	default:
		return MaxBulkCall
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyInProcess:
		return "InProcess"
	case StrategyBulk:
		return "Bulk"
	case StrategyParallel:
		return "Parallel"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
