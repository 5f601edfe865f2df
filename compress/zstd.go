package compress

// ZstdCompressor provides Zstandard compression for encoded payloads.
//
// This compressor is designed for scenarios where compression ratio matters
// more than compression speed, making it a good fit for:
//   - Archival of encoded snapshots
//   - Network transmission where bandwidth is limited
//   - Scenarios where decompression happens infrequently
//
// The Compress and Decompress methods live in build-tagged files so the
// implementation can be switched between the pure-Go and cgo-backed
// libraries without touching callers.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
