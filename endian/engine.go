// Package endian provides byte-order utilities for the limcode wire format.
//
// The wire format is strictly little-endian. This package wraps Go's
// encoding/binary ByteOrder and AppendByteOrder interfaces into a single
// EndianEngine so encoders can use the faster append-style operations, and
// exposes a host byte-order probe used to gate the zero-copy and bulk POD
// paths, which reinterpret native memory as wire bytes and are therefore
// only valid on little-endian hosts.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
// binary.LittleEndian satisfies it, so the engine interoperates with any
// code written against the standard library interfaces.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine used by all limcode encoders and
// decoders. The returned engine is immutable and safe for concurrent use.
func Little() EndianEngine {
	return binary.LittleEndian
}

// Native returns the host's byte order, determined by probing a fixed
// integer value.
func Native() binary.ByteOrder {
	// 0x0100: a little-endian host stores the 0x00 byte first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host byte order matches the wire
// format. The POD bulk-copy and zero-copy borrowed paths require this.
func IsNativeLittleEndian() bool {
	return Native() == binary.LittleEndian
}
