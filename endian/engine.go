// Package endian provides the byte order engines used to decode TDMS segments.
//
// Every TDMS segment declares its own byte order through the BigEndian bit of
// its table of contents. Decoders never assume a process-wide order: the
// engine of the owning segment is passed to each decode call.
//
//	engine := leadIn.Toc.GetEndianEngine()
//	v, n, err := encoding.ReadFloat64(buf, off, engine)
//
// The returned engines are the stateless binary.LittleEndian and
// binary.BigEndian values and are safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// so that one value can both decode and encode.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromBigEndianFlag returns the big-endian engine when bigEndian is set and the
// little-endian engine otherwise.
func FromBigEndianFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBigEndian reports whether engine decodes most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// Name returns "little-endian" or "big-endian" for log fields.
func Name(engine EndianEngine) string {
	if IsBigEndian(engine) {
		return "big-endian"
	}

	return "little-endian"
}
