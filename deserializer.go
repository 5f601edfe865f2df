package limcode

import (
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"
	"unsafe"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/errs"
	"github.com/slonana-labs/limcode/wire"
)

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// decodeValue mirrors encodeValue: a forward-only, bounds-checked walk that
// populates rv from a wire.Decoder. rv must be settable.
func decodeValue(dec *wire.Decoder, rv reflect.Value) error {
	// Pointers decode the option tag first; Unmarshaler applies to the
	// pointee.
	if rv.Kind() == reflect.Pointer {
		tag, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		switch tag {
		case 0:
			rv.SetZero()
			return nil
		case 1:
			elem := reflect.New(rv.Type().Elem())
			if err := decodeValue(dec, elem.Elem()); err != nil {
				return err
			}
			rv.Set(elem)

			return nil
		default:
			return errs.ErrInvalidOptionTag
		}
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalLimcode(dec)
	}

	switch rv.Kind() {
	case reflect.Bool:
		v, err := dec.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(dec, rv)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeUint(dec, rv)
	case reflect.Float32:
		v, err := dec.ReadFloat32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
	case reflect.Float64:
		v, err := dec.ReadFloat64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
	case reflect.String:
		b, err := dec.ReadLengthPrefixedBorrowed()
		if err != nil {
			return err
		}
		if !utf8.Valid(b) {
			return errs.ErrInvalidUTF8
		}
		rv.SetString(string(b))
	case reflect.Slice:
		return decodeSlice(dec, rv)
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := decodeValue(dec, rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for _, idx := range cachedFields(rv.Type()) {
			if err := decodeValue(dec, rv.Field(idx)); err != nil {
				return err
			}
		}
	case reflect.Map:
		return decodeMap(dec, rv)
	default:
		return fmt.Errorf("limcode: unsupported type %s (platform-width and reference types have no fixed wire layout)", rv.Type())
	}

	return nil
}

func decodeInt(dec *wire.Decoder, rv reflect.Value) error {
	var (
		v   int64
		err error
	)
	switch rv.Kind() {
	case reflect.Int8:
		var x int8
		x, err = dec.ReadInt8()
		v = int64(x)
	case reflect.Int16:
		var x int16
		x, err = dec.ReadInt16()
		v = int64(x)
	case reflect.Int32:
		var x int32
		x, err = dec.ReadInt32()
		v = int64(x)
	default:
		v, err = dec.ReadInt64()
	}
	if err != nil {
		return err
	}
	rv.SetInt(v)

	return nil
}

func decodeUint(dec *wire.Decoder, rv reflect.Value) error {
	var (
		v   uint64
		err error
	)
	switch rv.Kind() {
	case reflect.Uint8:
		var x uint8
		x, err = dec.ReadUint8()
		v = uint64(x)
	case reflect.Uint16:
		var x uint16
		x, err = dec.ReadUint16()
		v = uint64(x)
	case reflect.Uint32:
		var x uint32
		x, err = dec.ReadUint32()
		v = uint64(x)
	default:
		v, err = dec.ReadUint64()
	}
	if err != nil {
		return err
	}
	rv.SetUint(v)

	return nil
}

// decodeSlice reads the 8-byte element count and the elements. The count is
// validated against the remaining input before any allocation so a
// corrupted prefix cannot trigger a huge allocation. Primitive elements on
// a little-endian host are read as one chunked bulk copy.
func decodeSlice(dec *wire.Decoder, rv reflect.Value) error {
	count, err := dec.ReadUint64()
	if err != nil {
		return err
	}

	elemType := rv.Type().Elem()
	elemSize := uint64(elemType.Size())
	switch {
	case isPrimitiveKind(elemType.Kind()):
		if count > uint64(dec.Remaining())/elemSize {
			return errs.ErrEOF
		}
	case zeroWireSize(elemType):
		// Zero-size elements consume no input, so the count cannot be
		// validated against remaining bytes; materialize the elements
		// directly.
		if count > uint64(math.MaxInt) {
			return errs.ErrEOF
		}
		n := int(count)
		rv.Set(reflect.MakeSlice(rv.Type(), n, n))

		return nil
	default:
		// Every other element shape occupies at least one byte on the wire.
		if count > uint64(dec.Remaining()) {
			return errs.ErrEOF
		}
	}

	n := int(count)
	out := reflect.MakeSlice(rv.Type(), n, n)
	if n == 0 {
		rv.Set(out)
		return nil
	}

	if isPrimitiveKind(elemType.Kind()) && endian.IsNativeLittleEndian() {
		raw := unsafe.Slice((*byte)(out.UnsafePointer()), n*int(elemSize))
		if err := dec.ReadBytes(raw); err != nil {
			return err
		}
		rv.Set(out)

		return nil
	}

	for i := 0; i < n; i++ {
		if err := decodeValue(dec, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)

	return nil
}

// zeroWireSize reports whether values of t occupy no bytes on the wire, such
// as a struct with no encodable fields or a zero-length array. Types with a
// custom codec control their own encoding and are never zero-size here.
func zeroWireSize(t reflect.Type) bool {
	if t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType) {
		return false
	}

	switch t.Kind() {
	case reflect.Struct:
		for _, idx := range cachedFields(t) {
			if !zeroWireSize(t.Field(idx).Type) {
				return false
			}
		}

		return true
	case reflect.Array:
		return t.Len() == 0 || zeroWireSize(t.Elem())
	default:
		return false
	}
}

// decodeMap reads the 8-byte pair count and the key/value pairs. Map keys are
// string or integer typed and always occupy at least one byte, so the pair
// count is bounded by the remaining input even when values are zero-size.
func decodeMap(dec *wire.Decoder, rv reflect.Value) error {
	count, err := dec.ReadUint64()
	if err != nil {
		return err
	}
	if count > uint64(dec.Remaining()) {
		return errs.ErrEOF
	}

	t := rv.Type()
	m := reflect.MakeMapWithSize(t, int(count))
	for i := uint64(0); i < count; i++ {
		key := reflect.New(t.Key()).Elem()
		if err := decodeValue(dec, key); err != nil {
			return err
		}
		val := reflect.New(t.Elem()).Elem()
		if err := decodeValue(dec, val); err != nil {
			return err
		}
		m.SetMapIndex(key, val)
	}
	rv.Set(m)

	return nil
}
