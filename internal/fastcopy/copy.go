// Package fastcopy implements the size-tiered memory copy engine used by the
// bulk encode/decode paths.
//
// Copy selects its strategy from the total length:
//
//   - ≤64KiB: plain byte copy. The transfer stays cache-resident and the
//     setup cost of the streaming path would dominate.
//   - >64KiB: streaming block copy. The destination is byte-copied up to the
//     widest block alignment boundary, then moved in maximal-width aligned
//     blocks, degrading through narrower widths for the tail. One-shot
//     transfers of this size would otherwise evict the working set from
//     cache.
//   - >16MiB: the destination is prefaulted (one byte written per page)
//     before the copy so the copy loop does not stall on page faults while
//     the OS backs fresh virtual pages.
//
// Callers see a single Copy(dst, src) regardless of which tier executed.
// dst and src must not overlap.
package fastcopy

import (
	"unsafe"

	"github.com/slonana-labs/limcode/format"
)

const (
	// blockSize is the widest copy unit of the streaming tier. 64 bytes
	// matches one cache line, so each aligned block store touches exactly
	// one line.
	blockSize = 64

	// wordSize is the narrower fallback unit for tails shorter than a block.
	wordSize = 8

	// pageSize is the stride used when prefaulting destination pages.
	pageSize = 4096
)

// Copy copies len(src) bytes from src to dst using the size-tiered strategy.
// dst must be at least len(src) bytes long and must not overlap src.
func Copy(dst, src []byte) {
	n := len(src)
	if n == 0 {
		return
	}
	if n <= format.StreamingThreshold {
		copy(dst[:n], src)
		return
	}
	if n > format.PrefaultThreshold {
		Prefault(dst[:n])
	}

	streamCopy(dst, src, n)
}

// Prefault writes one zero byte per page of buf, forcing the operating
// system to back every virtual page with physical memory before a timed bulk
// copy. Call it before filling buf: the touched bytes are clobbered.
func Prefault(buf []byte) {
	for off := 0; off < len(buf); off += pageSize {
		buf[off] = 0
	}
}

// streamCopy moves n bytes in aligned 64-byte blocks, with byte-wise head
// and word-wise tail handling. The head loop advances until the destination
// pointer reaches a block boundary; the main loop then issues whole-block
// moves; the remainder degrades to 8-byte words and finally single bytes.
func streamCopy(dst, src []byte, n int) {
	d := unsafe.Pointer(&dst[0])
	s := unsafe.Pointer(&src[0])

	// Head: byte-copy until dst is block-aligned.
	head := (blockSize - int(uintptr(d)&(blockSize-1))) & (blockSize - 1)
	if head > n {
		head = n
	}
	for i := 0; i < head; i++ {
		*(*byte)(unsafe.Add(d, i)) = *(*byte)(unsafe.Add(s, i))
	}
	d = unsafe.Add(d, head)
	s = unsafe.Add(s, head)
	n -= head

	// Aligned full blocks, eight 64-bit words per block.
	for n >= blockSize {
		*(*[blockSize / wordSize]uint64)(d) = *(*[blockSize / wordSize]uint64)(s)
		d = unsafe.Add(d, blockSize)
		s = unsafe.Add(s, blockSize)
		n -= blockSize
	}

	// Word-wide tail.
	for n >= wordSize {
		*(*uint64)(d) = *(*uint64)(s)
		d = unsafe.Add(d, wordSize)
		s = unsafe.Add(s, wordSize)
		n -= wordSize
	}

	// Remaining bytes shorter than one word.
	for i := 0; i < n; i++ {
		*(*byte)(unsafe.Add(d, i)) = *(*byte)(unsafe.Add(s, i))
	}
}
