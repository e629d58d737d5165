package encoding

import (
	"math"

	"github.com/arloliu/tdms/endian"
)

// ExtendedSize is the encoded width of an Extended value.
const ExtendedSize = 10

const (
	extendedBias    = 16383
	extendedExpMask = 0x7FFF
	extendedSignBit = 0x8000
)

// Extended is an x87 80-bit extended precision float: a sign bit, a 15-bit
// biased exponent and a 64-bit mantissa with an explicit integer bit.
type Extended struct {
	SignExponent uint16
	Mantissa     uint64
}

// Float64 converts x to the nearest float64. Values outside the float64
// range become ±Inf or ±0.
func (x Extended) Float64() float64 {
	neg := x.SignExponent&extendedSignBit != 0
	exp := int(x.SignExponent & extendedExpMask)

	var f float64
	switch {
	case exp == extendedExpMask:
		if x.Mantissa<<1 != 0 {
			return math.NaN()
		}
		f = math.Inf(1)
	case x.Mantissa == 0:
		f = 0
	default:
		f = math.Ldexp(float64(x.Mantissa), exp-extendedBias-63)
	}

	if neg {
		return -f
	}

	return f
}

// ExtendedFromFloat64 converts f exactly into an Extended.
func ExtendedFromFloat64(f float64) Extended {
	var sign uint16
	if math.Signbit(f) {
		sign = extendedSignBit
		f = -f
	}

	switch {
	case math.IsNaN(f):
		return Extended{SignExponent: sign | extendedExpMask, Mantissa: 0xC000000000000000}
	case math.IsInf(f, 0):
		return Extended{SignExponent: sign | extendedExpMask, Mantissa: 1 << 63}
	case f == 0:
		return Extended{SignExponent: sign}
	}

	frac, exp := math.Frexp(f)

	return Extended{
		SignExponent: sign | uint16(exp-1+extendedBias), //nolint:gosec
		Mantissa:     uint64(math.Ldexp(frac, 64)),
	}
}

// DecodeExtended decodes 10 bytes. Little-endian segments store the mantissa
// first; big-endian segments store the sign and exponent first.
func DecodeExtended(b []byte, engine endian.EndianEngine) Extended {
	if endian.IsBigEndian(engine) {
		return Extended{SignExponent: engine.Uint16(b[0:2]), Mantissa: engine.Uint64(b[2:10])}
	}

	return Extended{Mantissa: engine.Uint64(b[0:8]), SignExponent: engine.Uint16(b[8:10])}
}

// ReadExtended reads a 10-byte extended float at off.
func ReadExtended(b []byte, off int, engine endian.EndianEngine) (Extended, int, error) {
	return read(b, off, ExtendedSize, engine, DecodeExtended)
}

// AppendExtended appends x in the layout DecodeExtended expects.
func AppendExtended(dst []byte, x Extended, engine endian.EndianEngine) []byte {
	if endian.IsBigEndian(engine) {
		dst = engine.AppendUint16(dst, x.SignExponent)
		return engine.AppendUint64(dst, x.Mantissa)
	}

	dst = engine.AppendUint64(dst, x.Mantissa)
	return engine.AppendUint16(dst, x.SignExponent)
}

// FixedPointSize is the encoded width of a FixedPoint value.
const FixedPointSize = 10

// FixedPoint holds the bytes of a LabVIEW fixed point value as stored in the
// file. Its word length and encoding live in channel properties, so the value
// is not interpreted here.
type FixedPoint [FixedPointSize]byte

// DecodeFixedPoint copies 10 bytes.
func DecodeFixedPoint(b []byte, _ endian.EndianEngine) FixedPoint {
	var fp FixedPoint
	copy(fp[:], b[:FixedPointSize])

	return fp
}

// ReadFixedPoint reads a 10-byte fixed point value at off.
func ReadFixedPoint(b []byte, off int) (FixedPoint, int, error) {
	return read(b, off, FixedPointSize, nil, DecodeFixedPoint)
}
