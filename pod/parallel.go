package pod

import (
	"sync"
	"unsafe"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/format"
	"github.com/slonana-labs/limcode/internal/fastcopy"
)

// MarshalSliceParallel encodes a massive primitive slice using concurrent
// workers, producing output byte-identical to MarshalSlice.
//
// Slices whose format.ChooseStrategy outcome is not StrategyParallel take
// the sequential path; goroutine dispatch overhead outweighs the benefit
// below the threshold. Above it, one destination buffer is pre-allocated
// for the whole output and each worker copies its
// format.ParallelChunkElems-element chunk into its own byte range. Ranges
// are non-overlapping by chunk index arithmetic, so no locking is needed,
// and no concatenation pass is required afterwards. All workers are joined
// before the function returns.
func MarshalSliceParallel[T Primitive](values []T) []byte {
	elemSize := int(unsafe.Sizeof(*new(T)))
	byteLen := len(values) * elemSize
	if format.ChooseStrategy(byteLen, len(values)) != format.StrategyParallel || !endian.IsNativeLittleEndian() {
		return MarshalSlice(values)
	}

	buf := make([]byte, 8+byteLen)
	if byteLen > format.PrefaultThreshold {
		fastcopy.Prefault(buf)
	}
	endian.Little().PutUint64(buf[:8], uint64(len(values)))

	var wg sync.WaitGroup
	for start := 0; start < len(values); start += format.ParallelChunkElems {
		end := start + format.ParallelChunkElems
		if end > len(values) {
			end = len(values)
		}
		chunk := values[start:end]
		dst := buf[8+start*elemSize : 8+end*elemSize]

		wg.Add(1)
		go func() {
			defer wg.Done()
			fastcopy.Copy(dst, rawBytes(chunk))
		}()
	}
	wg.Wait()

	return buf
}
