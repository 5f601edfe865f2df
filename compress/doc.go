// Package compress provides compression and decompression codecs for encoded
// limcode payloads.
//
// Compression is applied after encoding: the codec output is already a dense
// binary stream, and these codecs wrap it in a general-purpose compression
// frame for storage or transmission. The wire format itself is never changed.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **NoOp** (format.CompressionNone)
//   - Returns input unchanged, zero overhead
//   - Use when payloads are small or already compressed
//
// **Zstd** (format.CompressionZstd)
//   - Best compression ratio, moderate speed
//   - Pooled encoders/decoders eliminate per-call allocation
//   - Use for archival and cold storage
//
// **S2** (format.CompressionS2)
//   - Snappy-compatible, balanced speed and ratio
//   - Use for hot paths where compression still pays for itself
//
// **LZ4** (format.CompressionLZ4)
//   - Fastest decompression, moderate ratio
//   - Use for read-heavy workloads
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//	if err != nil {
//	    return err
//	}
//	original, err := codec.Decompress(compressed)
//
// All codecs returned by GetCodec are stateless values and safe for
// concurrent use.
package compress
