package limcode

import (
	"reflect"
	"sync"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/fastcopy"
	"github.com/slonana-labs/limcode/internal/pool"
	"github.com/slonana-labs/limcode/wire"
)

// MarshalParallel encodes a large homogeneous slice using concurrent
// workers, producing output byte-identical to Marshal(values).
//
// Slices whose format.ChooseStrategy outcome is not StrategyParallel take
// the sequential path.
// Above the threshold, the slice is partitioned into format.ParallelChunkElems-element
// chunks; each worker serializes its chunk into an independent buffer with
// no shared mutable state, and the chunk buffers are concatenated in
// original chunk order after one 8-byte total-element-count prefix. Chunk
// order, not completion order, determines the output, so the result is
// deterministic. All workers are joined before the function returns.
//
// For primitive element types, pod.MarshalSliceParallel avoids the
// concatenation pass entirely and should be preferred.
func MarshalParallel[T any](values []T) ([]byte, error) {
	// The in-memory element size stands in for the wire size; only the
	// element count matters for the parallel decision.
	byteLen := len(values) * int(reflect.TypeOf((*T)(nil)).Elem().Size())
	if format.ChooseStrategy(byteLen, len(values)) != format.StrategyParallel {
		return Marshal(values)
	}

	numChunks := (len(values) + format.ParallelChunkElems - 1) / format.ParallelChunkElems
	bufs := make([][]byte, numChunks)
	errors := make([]error, numChunks)

	var wg sync.WaitGroup
	for ci := 0; ci < numChunks; ci++ {
		start := ci * format.ParallelChunkElems
		end := start + format.ParallelChunkElems
		if end > len(values) {
			end = len(values)
		}
		chunk := values[start:end]

		wg.Add(1)
		go func(ci int, chunk []T) {
			defer wg.Done()
			bufs[ci], errors[ci] = marshalChunk(chunk)
		}(ci, chunk)
	}
	wg.Wait()

	for _, err := range errors {
		if err != nil {
			for _, b := range bufs {
				if cap(b) > 0 {
					pool.PutChunkBuffer(pool.WrapByteBuffer(b))
				}
			}

			return nil, err
		}
	}

	total := 8
	for _, b := range bufs {
		total += len(b)
	}

	out := make([]byte, 0, total)
	out = endian.Little().AppendUint64(out, uint64(len(values)))
	for _, b := range bufs {
		out = append(out, b...)
		// Chunk buffers are dead after concatenation; recycle their
		// backing storage for future workers.
		pool.PutChunkBuffer(pool.WrapByteBuffer(b))
	}

	return out, nil
}

// marshalChunk serializes one chunk's elements back-to-back with no count
// prefix, into a pooled buffer. Primitive elements are copied as one raw
// bulk span through the copy engine, identical byte-for-byte to the
// per-element encoding and without leaving the pooled buffer's backing
// storage behind. If the encoder's result ends up in different backing
// storage (growth, or an element engaging the bulk sink), the pooled buffer
// is returned to its pool instead of leaking to the collector.
func marshalChunk[T any](chunk []T) ([]byte, error) {
	bb := pool.GetChunkBuffer()

	rv := reflect.ValueOf(chunk)
	if isPrimitiveKind(rv.Type().Elem().Kind()) && endian.IsNativeLittleEndian() {
		src := sliceRawBytes(rv)
		bb.ExtendOrGrow(len(src))
		fastcopy.Copy(bb.Bytes(), src)

		return bb.Bytes(), nil
	}

	backing := bb.Bytes()
	enc := wire.NewEncoderWithBuffer(backing)
	for i := range chunk {
		if err := encodeValue(enc, rv.Index(i)); err != nil {
			pool.PutChunkBuffer(bb)
			return nil, err
		}
	}

	out := enc.Finish()
	if cap(out) == 0 || &out[:1][0] != &backing[:1][0] {
		pool.PutChunkBuffer(bb)
	}

	return out, nil
}
