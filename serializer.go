package limcode

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"unsafe"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/wire"
)

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

// encodeValue is the type-directed visitor driving a wire.Encoder. It keeps
// the traversal order identical to the reference format: no tags, no
// padding, fields and elements in declaration order.
func encodeValue(enc *wire.Encoder, rv reflect.Value) error {
	if !rv.IsValid() {
		return fmt.Errorf("limcode: cannot encode invalid value")
	}
	// Pointers always carry the option tag; Marshaler applies to the
	// pointee, so a *T implementing Marshaler through T still gets its tag.
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			enc.WriteUint8(0)
			return nil
		}
		enc.WriteUint8(1)

		return encodeValue(enc, rv.Elem())
	}
	if rv.Type().Implements(marshalerType) {
		return rv.Interface().(Marshaler).MarshalLimcode(enc)
	}
	if reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		if !rv.CanAddr() {
			// Non-addressable positions (top-level values, map entries) get
			// an addressable copy so pointer-receiver codecs still apply and
			// encode stays symmetric with decode.
			tmp := reflect.New(rv.Type()).Elem()
			tmp.Set(rv)
			rv = tmp
		}

		return rv.Addr().Interface().(Marshaler).MarshalLimcode(enc)
	}

	switch rv.Kind() {
	case reflect.Bool:
		enc.WriteBool(rv.Bool())
	case reflect.Int8:
		enc.WriteInt8(int8(rv.Int()))
	case reflect.Int16:
		enc.WriteInt16(int16(rv.Int()))
	case reflect.Int32:
		enc.WriteInt32(int32(rv.Int()))
	case reflect.Int64:
		enc.WriteInt64(rv.Int())
	case reflect.Uint8:
		enc.WriteUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		enc.WriteUint16(uint16(rv.Uint()))
	case reflect.Uint32:
		enc.WriteUint32(uint32(rv.Uint()))
	case reflect.Uint64:
		enc.WriteUint64(rv.Uint())
	case reflect.Float32:
		enc.WriteFloat32(float32(rv.Float()))
	case reflect.Float64:
		enc.WriteFloat64(rv.Float())
	case reflect.String:
		enc.WriteLengthPrefixedString(rv.String())
	case reflect.Slice:
		return encodeSlice(enc, rv)
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(enc, rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for _, idx := range cachedFields(rv.Type()) {
			if err := encodeValue(enc, rv.Field(idx)); err != nil {
				return err
			}
		}
	case reflect.Map:
		return encodeMap(enc, rv)
	default:
		return fmt.Errorf("limcode: unsupported type %s (platform-width and reference types have no fixed wire layout)", rv.Type())
	}

	return nil
}

// encodeSlice writes the 8-byte element count, then the elements. Slices of
// fixed-layout primitives on a little-endian host are written as one raw
// bulk span, which is byte-identical to the per-element encoding.
func encodeSlice(enc *wire.Encoder, rv reflect.Value) error {
	n := rv.Len()
	enc.WriteUint64(uint64(n))
	if n == 0 {
		return nil
	}

	if isPrimitiveKind(rv.Type().Elem().Kind()) && endian.IsNativeLittleEndian() {
		enc.WriteBytes(sliceRawBytes(rv))
		return nil
	}

	for i := 0; i < n; i++ {
		if err := encodeValue(enc, rv.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

// encodeMap writes the 8-byte pair count, then key/value pairs with keys in
// sorted order so the output is deterministic despite Go's randomized map
// iteration. Only string- and integer-keyed maps are supported.
func encodeMap(enc *wire.Encoder, rv reflect.Value) error {
	keys := rv.MapKeys()
	switch rv.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	default:
		return fmt.Errorf("limcode: unsupported map key type %s", rv.Type().Key())
	}

	enc.WriteUint64(uint64(len(keys)))
	for _, k := range keys {
		if err := encodeValue(enc, k); err != nil {
			return err
		}
		if err := encodeValue(enc, rv.MapIndex(k)); err != nil {
			return err
		}
	}

	return nil
}

// isPrimitiveKind reports whether a slice of this element kind qualifies
// for the bulk fast path: fixed-width, padding-free, reinterpretable as
// wire bytes on a little-endian host.
func isPrimitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// sliceRawBytes reinterprets a non-empty primitive slice as its backing
// bytes. Caller guarantees rv is a slice of primitive kind with Len > 0.
func sliceRawBytes(rv reflect.Value) []byte {
	byteLen := rv.Len() * int(rv.Type().Elem().Size())
	return unsafe.Slice((*byte)(rv.UnsafePointer()), byteLen)
}

// fieldCache maps struct types to the indices of their encodable fields,
// so repeated encodes of the same type skip the reflection walk.
var fieldCache sync.Map // reflect.Type -> []int

// cachedFields returns the indices of t's exported fields in declaration
// order, excluding fields tagged `limcode:"-"`.
func cachedFields(t reflect.Type) []int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]int)
	}

	var fields []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("limcode") == "-" {
			continue
		}
		fields = append(fields, i)
	}
	fieldCache.Store(t, fields)

	return fields
}
