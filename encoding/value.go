package encoding

import (
	"fmt"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Value is a decoded property or sample together with its data type.
//
// V holds the Go type listed in the package documentation for Type; it is
// nil for Void.
type Value struct {
	Type format.DataType
	V    any
}

// NewValue pairs v with t after checking that v has the Go type t decodes to.
func NewValue(t format.DataType, v any) (Value, error) {
	val := Value{Type: t, V: v}
	if !val.valid() {
		return Value{}, fmt.Errorf("%w: %T is not a %s value", errs.ErrTypeMismatch, v, t)
	}

	return val, nil
}

// MustValue is NewValue that panics on mismatch. Intended for tests and literals.
func MustValue(t format.DataType, v any) Value {
	val, err := NewValue(t, v)
	if err != nil {
		panic(err)
	}

	return val
}

func (v Value) valid() bool {
	switch v.Type.Base() {
	case format.TypeVoid:
		return v.V == nil
	case format.TypeI8:
		_, ok := v.V.(int8)
		return ok
	case format.TypeI16:
		_, ok := v.V.(int16)
		return ok
	case format.TypeI32:
		_, ok := v.V.(int32)
		return ok
	case format.TypeI64:
		_, ok := v.V.(int64)
		return ok
	case format.TypeU8:
		_, ok := v.V.(uint8)
		return ok
	case format.TypeU16:
		_, ok := v.V.(uint16)
		return ok
	case format.TypeU32:
		_, ok := v.V.(uint32)
		return ok
	case format.TypeU64:
		_, ok := v.V.(uint64)
		return ok
	case format.TypeSingleFloat:
		_, ok := v.V.(float32)
		return ok
	case format.TypeDoubleFloat:
		_, ok := v.V.(float64)
		return ok
	case format.TypeExtendedFloat:
		_, ok := v.V.(Extended)
		return ok
	case format.TypeString:
		_, ok := v.V.(string)
		return ok
	case format.TypeBoolean:
		_, ok := v.V.(bool)
		return ok
	case format.TypeTimeStamp:
		_, ok := v.V.(Timestamp)
		return ok
	case format.TypeFixedPoint:
		_, ok := v.V.(FixedPoint)
		return ok
	case format.TypeComplexSingleFloat:
		_, ok := v.V.(complex64)
		return ok
	case format.TypeComplexDoubleFloat:
		_, ok := v.V.(complex128)
		return ok
	default:
		return false
	}
}

// Int64 returns the value as int64 for every integer type that fits.
func (v Value) Int64() (int64, bool) {
	switch x := v.V.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

// Float64 returns the value as float64 for integer and real float types.
func (v Value) Float64() (float64, bool) {
	switch x := v.V.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case Extended:
		return x.Float64(), true
	case uint64:
		return float64(x), true
	}

	if i, ok := v.Int64(); ok {
		return float64(i), true
	}

	return 0, false
}

// Str returns the value of a String typed value.
func (v Value) Str() (string, bool) {
	s, ok := v.V.(string)
	return s, ok
}

// Bool returns the value of a Boolean typed value.
func (v Value) Bool() (bool, bool) {
	b, ok := v.V.(bool)
	return b, ok
}

// Timestamp returns the value of a TimeStamp typed value.
func (v Value) Timestamp() (Timestamp, bool) {
	ts, ok := v.V.(Timestamp)
	return ts, ok
}

func (v Value) String() string {
	if v.V == nil {
		return fmt.Sprintf("%s()", v.Type)
	}

	return fmt.Sprintf("%s(%v)", v.Type, v.V)
}

// DecodeValue reads a value of type t at off.
//
// Parameters:
//   - t: Data type of the value
//   - b: Source bytes
//   - off: Offset of the value in b
//   - engine: Byte order of the owning segment
//
// Returns:
//   - Value: The decoded value
//   - int: Bytes consumed
//   - error: ErrTruncatedData, ErrMalformedString, ErrMalformedMetadata for
//     DAQmxRawData or ErrUnknownDataType
func DecodeValue(t format.DataType, b []byte, off int, engine endian.EndianEngine) (Value, int, error) {
	var (
		v   any
		n   int
		err error
	)

	switch t.Base() {
	case format.TypeVoid:
		return Value{Type: t}, 0, nil
	case format.TypeI8:
		v, n, err = wrap(ReadInt8(b, off))
	case format.TypeI16:
		v, n, err = wrap(ReadInt16(b, off, engine))
	case format.TypeI32:
		v, n, err = wrap(ReadInt32(b, off, engine))
	case format.TypeI64:
		v, n, err = wrap(ReadInt64(b, off, engine))
	case format.TypeU8:
		v, n, err = wrap(ReadUint8(b, off))
	case format.TypeU16:
		v, n, err = wrap(ReadUint16(b, off, engine))
	case format.TypeU32:
		v, n, err = wrap(ReadUint32(b, off, engine))
	case format.TypeU64:
		v, n, err = wrap(ReadUint64(b, off, engine))
	case format.TypeSingleFloat:
		v, n, err = wrap(ReadFloat32(b, off, engine))
	case format.TypeDoubleFloat:
		v, n, err = wrap(ReadFloat64(b, off, engine))
	case format.TypeExtendedFloat:
		v, n, err = wrap(ReadExtended(b, off, engine))
	case format.TypeString:
		v, n, err = wrap(ReadString(b, off))
	case format.TypeBoolean:
		v, n, err = wrap(ReadBool(b, off))
	case format.TypeTimeStamp:
		v, n, err = wrap(ReadTimestamp(b, off, engine))
	case format.TypeFixedPoint:
		v, n, err = wrap(ReadFixedPoint(b, off))
	case format.TypeComplexSingleFloat:
		v, n, err = wrap(ReadComplex64(b, off, engine))
	case format.TypeComplexDoubleFloat:
		v, n, err = wrap(ReadComplex128(b, off, engine))
	case format.TypeDAQmxRawData:
		return Value{}, 0, fmt.Errorf("%w: DAQmxRawData has no value encoding", errs.ErrMalformedMetadata)
	default:
		return Value{}, 0, fmt.Errorf("%w: 0x%X", errs.ErrUnknownDataType, uint32(t))
	}

	if err != nil {
		return Value{}, 0, err
	}

	return Value{Type: t, V: v}, n, nil
}

func wrap[T any](v T, n int, err error) (any, int, error) {
	return v, n, err
}

// AppendValue appends the encoding of v to dst.
//
// Returns:
//   - []byte: dst with the value appended
//   - error: ErrTypeMismatch when v.V does not match v.Type, ErrUnknownDataType otherwise
func AppendValue(dst []byte, v Value, engine endian.EndianEngine) ([]byte, error) {
	if !v.valid() {
		return dst, fmt.Errorf("%w: %T is not a %s value", errs.ErrTypeMismatch, v.V, v.Type)
	}

	switch x := v.V.(type) {
	case nil:
		return dst, nil
	case int8:
		return append(dst, byte(x)), nil
	case int16:
		return engine.AppendUint16(dst, uint16(x)), nil //nolint:gosec
	case int32:
		return engine.AppendUint32(dst, uint32(x)), nil //nolint:gosec
	case int64:
		return engine.AppendUint64(dst, uint64(x)), nil //nolint:gosec
	case uint8:
		return append(dst, x), nil
	case uint16:
		return engine.AppendUint16(dst, x), nil
	case uint32:
		return engine.AppendUint32(dst, x), nil
	case uint64:
		return engine.AppendUint64(dst, x), nil
	case float32:
		return AppendFloat32(dst, x, engine), nil
	case float64:
		return AppendFloat64(dst, x, engine), nil
	case Extended:
		return AppendExtended(dst, x, engine), nil
	case string:
		return AppendString(dst, x), nil
	case bool:
		if x {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case Timestamp:
		return AppendTimestamp(dst, x, engine), nil
	case FixedPoint:
		return append(dst, x[:]...), nil
	case complex64:
		dst = AppendFloat32(dst, real(x), engine)
		return AppendFloat32(dst, imag(x), engine), nil
	case complex128:
		dst = AppendFloat64(dst, real(x), engine)
		return AppendFloat64(dst, imag(x), engine), nil
	default:
		return dst, fmt.Errorf("%w: 0x%X", errs.ErrUnknownDataType, uint32(v.Type))
	}
}
