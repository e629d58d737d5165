package layout

import (
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/format"
)

// fixed builds the sequence of a fixed-width channel of type want.
func fixed[T any](r *Reader, path string, want format.DataType, dec encoding.Decoder[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		ch, err := r.channel(path, want)
		if err != nil {
			yield(zero, err)
			return
		}

		r.log.Debug("channel sequence started",
			zap.String("path", path), zap.Stringer("type", want), zap.Uint64("values", ch.Len()))

		width := want.Size()
		for _, loc := range ch.Locations() {
			engine := loc.Engine
			more, err := r.strided(loc, width, func(b []byte) bool {
				return yield(dec(b, engine), nil)
			})
			if err != nil {
				r.stopped(path, err)
				yield(zero, err)

				return
			}

			if !more {
				return
			}
		}
	}
}

// Int8s returns the values of an I8 channel.
func (r *Reader) Int8s(path string) iter.Seq2[int8, error] {
	return fixed(r, path, format.TypeI8, encoding.DecodeInt8)
}

// Int16s returns the values of an I16 channel.
func (r *Reader) Int16s(path string) iter.Seq2[int16, error] {
	return fixed(r, path, format.TypeI16, encoding.DecodeInt16)
}

// Int32s returns the values of an I32 channel.
func (r *Reader) Int32s(path string) iter.Seq2[int32, error] {
	return fixed(r, path, format.TypeI32, encoding.DecodeInt32)
}

// Int64s returns the values of an I64 channel.
func (r *Reader) Int64s(path string) iter.Seq2[int64, error] {
	return fixed(r, path, format.TypeI64, encoding.DecodeInt64)
}

// Uint8s returns the values of a U8 channel.
func (r *Reader) Uint8s(path string) iter.Seq2[uint8, error] {
	return fixed(r, path, format.TypeU8, encoding.DecodeUint8)
}

// Uint16s returns the values of a U16 channel.
func (r *Reader) Uint16s(path string) iter.Seq2[uint16, error] {
	return fixed(r, path, format.TypeU16, encoding.DecodeUint16)
}

// Uint32s returns the values of a U32 channel.
func (r *Reader) Uint32s(path string) iter.Seq2[uint32, error] {
	return fixed(r, path, format.TypeU32, encoding.DecodeUint32)
}

// Uint64s returns the values of a U64 channel.
func (r *Reader) Uint64s(path string) iter.Seq2[uint64, error] {
	return fixed(r, path, format.TypeU64, encoding.DecodeUint64)
}

// Float32s returns the values of a SingleFloat channel, with or without unit.
func (r *Reader) Float32s(path string) iter.Seq2[float32, error] {
	return fixed(r, path, format.TypeSingleFloat, encoding.DecodeFloat32)
}

// Float64s returns the values of a DoubleFloat channel, with or without unit.
func (r *Reader) Float64s(path string) iter.Seq2[float64, error] {
	return fixed(r, path, format.TypeDoubleFloat, encoding.DecodeFloat64)
}

// Extendeds returns the values of an ExtendedFloat channel, with or without unit.
func (r *Reader) Extendeds(path string) iter.Seq2[encoding.Extended, error] {
	return fixed(r, path, format.TypeExtendedFloat, encoding.DecodeExtended)
}

// Bools returns the values of a Boolean channel.
func (r *Reader) Bools(path string) iter.Seq2[bool, error] {
	return fixed(r, path, format.TypeBoolean, encoding.DecodeBool)
}

// Timestamps returns the values of a TimeStamp channel.
func (r *Reader) Timestamps(path string) iter.Seq2[encoding.Timestamp, error] {
	return fixed(r, path, format.TypeTimeStamp, encoding.DecodeTimestamp)
}

// FixedPoints returns the undecoded values of a FixedPoint channel.
func (r *Reader) FixedPoints(path string) iter.Seq2[encoding.FixedPoint, error] {
	return fixed(r, path, format.TypeFixedPoint, encoding.DecodeFixedPoint)
}

// Complex64s returns the values of a ComplexSingleFloat channel.
func (r *Reader) Complex64s(path string) iter.Seq2[complex64, error] {
	return fixed(r, path, format.TypeComplexSingleFloat, encoding.DecodeComplex64)
}

// Complex128s returns the values of a ComplexDoubleFloat channel.
func (r *Reader) Complex128s(path string) iter.Seq2[complex128, error] {
	return fixed(r, path, format.TypeComplexDoubleFloat, encoding.DecodeComplex128)
}
