package section

import (
	"strings"

	"github.com/arloliu/tdms/endian"
)

// TocFlag is the table of contents bitmask of a segment lead-in.
// It is always stored little-endian, whatever the segment byte order.
type TocFlag uint32

// HasMetaData reports whether the segment carries a metadata block.
func (f TocFlag) HasMetaData() bool {
	return f&TocMetaData != 0
}

// HasNewObjList reports whether the segment's object list replaces the previous one.
func (f TocFlag) HasNewObjList() bool {
	return f&TocNewObjList != 0
}

// HasRawData reports whether the segment carries raw data.
func (f TocFlag) HasRawData() bool {
	return f&TocRawData != 0
}

// IsInterleaved reports whether raw data values of all channels alternate.
func (f TocFlag) IsInterleaved() bool {
	return f&TocInterleaved != 0
}

// IsBigEndian reports whether the segment is big-endian.
func (f TocFlag) IsBigEndian() bool {
	return f&TocBigEndian != 0
}

// IsLittleEndian reports whether the segment is little-endian.
func (f TocFlag) IsLittleEndian() bool {
	return f&TocBigEndian == 0
}

// HasDAQmxRawData reports whether the segment carries DAQmx raw data.
func (f TocFlag) HasDAQmxRawData() bool {
	return f&TocDAQmxRawData != 0
}

// UnknownBits returns the bits outside the documented set.
func (f TocFlag) UnknownBits() uint32 {
	return uint32(f) &^ tocKnownMask
}

// WithMetaData sets the metadata bit.
func (f *TocFlag) WithMetaData() {
	*f |= TocMetaData
}

// WithNewObjList sets the new object list bit.
func (f *TocFlag) WithNewObjList() {
	*f |= TocNewObjList
}

// WithRawData sets the raw data bit.
func (f *TocFlag) WithRawData() {
	*f |= TocRawData
}

// WithInterleaved sets the interleaved bit.
func (f *TocFlag) WithInterleaved() {
	*f |= TocInterleaved
}

// WithBigEndian sets big-endian byte order.
func (f *TocFlag) WithBigEndian() {
	*f |= TocBigEndian
}

// WithLittleEndian sets little-endian byte order.
func (f *TocFlag) WithLittleEndian() {
	*f &^= TocBigEndian
}

// WithDAQmxRawData sets the DAQmx raw data bit.
func (f *TocFlag) WithDAQmxRawData() {
	*f |= TocDAQmxRawData
}

// GetEndianEngine returns the engine matching the segment byte order.
func (f TocFlag) GetEndianEngine() endian.EndianEngine {
	return endian.FromBigEndianFlag(f.IsBigEndian())
}

// String lists the set bits, e.g. "MetaData|NewObjList|RawData".
func (f TocFlag) String() string {
	names := make([]string, 0, 6)
	if f.HasMetaData() {
		names = append(names, "MetaData")
	}
	if f.HasNewObjList() {
		names = append(names, "NewObjList")
	}
	if f.HasRawData() {
		names = append(names, "RawData")
	}
	if f.IsInterleaved() {
		names = append(names, "Interleaved")
	}
	if f.IsBigEndian() {
		names = append(names, "BigEndian")
	}
	if f.HasDAQmxRawData() {
		names = append(names, "DAQmxRawData")
	}
	if len(names) == 0 {
		return "None"
	}

	return strings.Join(names, "|")
}
