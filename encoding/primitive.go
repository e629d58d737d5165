package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
)

// Decoder decodes a single fixed-width value from the start of b.
// The caller guarantees that b holds at least the value's width.
type Decoder[T any] func(b []byte, engine endian.EndianEngine) T

// need checks that b holds size bytes starting at off.
func need(b []byte, off, size int) error {
	if off < 0 || size < 0 || off > len(b) || len(b)-off < size {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedData, size, off, max(len(b)-off, 0))
	}

	return nil
}

// read wraps an unchecked decoder with a bounds check.
func read[T any](b []byte, off, size int, engine endian.EndianEngine, dec Decoder[T]) (T, int, error) {
	if err := need(b, off, size); err != nil {
		var zero T
		return zero, 0, err
	}

	return dec(b[off:off+size], engine), size, nil
}

// DecodeUint8 returns the first byte of b.
func DecodeUint8(b []byte, _ endian.EndianEngine) uint8 { return b[0] }

// DecodeUint16 decodes a u16 from the first 2 bytes of b.
func DecodeUint16(b []byte, engine endian.EndianEngine) uint16 { return engine.Uint16(b) }

// DecodeUint32 decodes a u32 from the first 4 bytes of b.
func DecodeUint32(b []byte, engine endian.EndianEngine) uint32 { return engine.Uint32(b) }

// DecodeUint64 decodes a u64 from the first 8 bytes of b.
func DecodeUint64(b []byte, engine endian.EndianEngine) uint64 { return engine.Uint64(b) }

// DecodeInt8 returns the first byte of b as a signed value.
func DecodeInt8(b []byte, _ endian.EndianEngine) int8 { return int8(b[0]) }

// DecodeInt16 decodes a two's complement i16 from the first 2 bytes of b.
func DecodeInt16(b []byte, engine endian.EndianEngine) int16 { return int16(engine.Uint16(b)) }

// DecodeInt32 decodes a two's complement i32 from the first 4 bytes of b.
func DecodeInt32(b []byte, engine endian.EndianEngine) int32 { return int32(engine.Uint32(b)) }

// DecodeInt64 decodes a two's complement i64 from the first 8 bytes of b.
func DecodeInt64(b []byte, engine endian.EndianEngine) int64 { return int64(engine.Uint64(b)) }

// DecodeFloat32 decodes an IEEE-754 binary32 from the first 4 bytes of b.
func DecodeFloat32(b []byte, engine endian.EndianEngine) float32 {
	return math.Float32frombits(engine.Uint32(b))
}

// DecodeFloat64 decodes an IEEE-754 binary64 from the first 8 bytes of b.
func DecodeFloat64(b []byte, engine endian.EndianEngine) float64 {
	return math.Float64frombits(engine.Uint64(b))
}

// DecodeBool treats any non-zero byte as true.
func DecodeBool(b []byte, _ endian.EndianEngine) bool { return b[0] != 0 }

// DecodeComplex64 decodes the real part followed by the imaginary part.
func DecodeComplex64(b []byte, engine endian.EndianEngine) complex64 {
	return complex(DecodeFloat32(b[0:4], engine), DecodeFloat32(b[4:8], engine))
}

// DecodeComplex128 decodes the real part followed by the imaginary part.
func DecodeComplex128(b []byte, engine endian.EndianEngine) complex128 {
	return complex(DecodeFloat64(b[0:8], engine), DecodeFloat64(b[8:16], engine))
}

// ReadUint8 reads one byte at off.
func ReadUint8(b []byte, off int) (uint8, int, error) {
	return read(b, off, 1, nil, DecodeUint8)
}

// ReadUint16 reads a u16 at off in the engine's byte order.
func ReadUint16(b []byte, off int, engine endian.EndianEngine) (uint16, int, error) {
	return read(b, off, 2, engine, DecodeUint16)
}

// ReadUint32 reads a u32 at off in the engine's byte order.
func ReadUint32(b []byte, off int, engine endian.EndianEngine) (uint32, int, error) {
	return read(b, off, 4, engine, DecodeUint32)
}

// ReadUint64 reads a u64 at off in the engine's byte order.
func ReadUint64(b []byte, off int, engine endian.EndianEngine) (uint64, int, error) {
	return read(b, off, 8, engine, DecodeUint64)
}

// ReadInt8 reads one signed byte at off.
func ReadInt8(b []byte, off int) (int8, int, error) {
	return read(b, off, 1, nil, DecodeInt8)
}

// ReadInt16 reads an i16 at off in the engine's byte order.
func ReadInt16(b []byte, off int, engine endian.EndianEngine) (int16, int, error) {
	return read(b, off, 2, engine, DecodeInt16)
}

// ReadInt32 reads an i32 at off in the engine's byte order.
func ReadInt32(b []byte, off int, engine endian.EndianEngine) (int32, int, error) {
	return read(b, off, 4, engine, DecodeInt32)
}

// ReadInt64 reads an i64 at off in the engine's byte order.
func ReadInt64(b []byte, off int, engine endian.EndianEngine) (int64, int, error) {
	return read(b, off, 8, engine, DecodeInt64)
}

// ReadFloat32 reads an IEEE-754 binary32 at off.
func ReadFloat32(b []byte, off int, engine endian.EndianEngine) (float32, int, error) {
	return read(b, off, 4, engine, DecodeFloat32)
}

// ReadFloat64 reads an IEEE-754 binary64 at off.
func ReadFloat64(b []byte, off int, engine endian.EndianEngine) (float64, int, error) {
	return read(b, off, 8, engine, DecodeFloat64)
}

// ReadBool reads a one-byte boolean at off.
func ReadBool(b []byte, off int) (bool, int, error) {
	return read(b, off, 1, nil, DecodeBool)
}

// ReadComplex64 reads a pair of binary32 at off.
func ReadComplex64(b []byte, off int, engine endian.EndianEngine) (complex64, int, error) {
	return read(b, off, 8, engine, DecodeComplex64)
}

// ReadComplex128 reads a pair of binary64 at off.
func ReadComplex128(b []byte, off int, engine endian.EndianEngine) (complex128, int, error) {
	return read(b, off, 16, engine, DecodeComplex128)
}

// AppendFloat32 appends f in the engine's byte order.
func AppendFloat32(dst []byte, f float32, engine endian.EndianEngine) []byte {
	return engine.AppendUint32(dst, math.Float32bits(f))
}

// AppendFloat64 appends f in the engine's byte order.
func AppendFloat64(dst []byte, f float64, engine endian.EndianEngine) []byte {
	return engine.AppendUint64(dst, math.Float64bits(f))
}
