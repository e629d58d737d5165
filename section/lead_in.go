package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/tdms/errs"
)

// LeadIn is the fixed 28-byte header that opens every segment.
//
// Layout:
//
//	Bytes  | Field               | Byte order
//	-------|---------------------|-------------------
//	0-3    | tag "TDSm"          | n/a
//	4-7    | table of contents   | little-endian
//	8-11   | version             | segment order
//	12-19  | next segment offset | segment order
//	20-27  | raw data offset     | segment order
//
// Both offsets are relative to the first byte after the lead-in.
type LeadIn struct {
	// Toc is the table of contents bitmask.
	Toc TocFlag
	// Version is the format version, 4712 or 4713 for known writers.
	Version uint32
	// NextSegmentOffset is the length of metadata plus raw data, or NoNextSegment.
	NextSegmentOffset uint64
	// RawDataOffset is the length of the metadata block.
	RawDataOffset uint64
}

// NewLeadIn creates a terminated lead-in with the given table of contents and version 4713.
func NewLeadIn(toc TocFlag) LeadIn {
	return LeadIn{Toc: toc, Version: Version2}
}

// Parse parses the lead-in from a byte slice.
//
// Parameters:
//   - data: Byte slice holding at least 28 bytes
//
// Returns:
//   - error: ErrInvalidLeadInSize, ErrInvalidSegmentTag or ErrInvalidSegmentOffset
func (l *LeadIn) Parse(data []byte) error {
	if len(data) < LeadInSize {
		return fmt.Errorf("%w: got %d bytes", errs.ErrInvalidLeadInSize, len(data))
	}

	if string(data[tagOffset:tocOffset]) != Tag {
		return fmt.Errorf("%w: %q", errs.ErrInvalidSegmentTag, data[tagOffset:tocOffset])
	}

	l.Toc = TocFlag(binary.LittleEndian.Uint32(data[tocOffset:versionOffset]))

	engine := l.Toc.GetEndianEngine()
	l.Version = engine.Uint32(data[versionOffset:nextOffsetOffset])
	l.NextSegmentOffset = engine.Uint64(data[nextOffsetOffset:rawOffsetOffset])
	l.RawDataOffset = engine.Uint64(data[rawOffsetOffset:LeadInSize])

	return l.Validate()
}

// Validate checks that the raw data offset lies inside the segment.
func (l LeadIn) Validate() error {
	if l.IsTerminated() && l.RawDataOffset > l.NextSegmentOffset {
		return fmt.Errorf("%w: raw data offset %d beyond next segment offset %d",
			errs.ErrInvalidSegmentOffset, l.RawDataOffset, l.NextSegmentOffset)
	}

	return nil
}

// Bytes serializes the lead-in into a new 28-byte slice.
func (l LeadIn) Bytes() []byte {
	return l.AppendTo(make([]byte, 0, LeadInSize))
}

// AppendTo appends the serialized lead-in to dst.
func (l LeadIn) AppendTo(dst []byte) []byte {
	engine := l.Toc.GetEndianEngine()

	dst = append(dst, Tag...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(l.Toc))
	dst = engine.AppendUint32(dst, l.Version)
	dst = engine.AppendUint64(dst, l.NextSegmentOffset)
	dst = engine.AppendUint64(dst, l.RawDataOffset)

	return dst
}

// IsTerminated reports whether the writer recorded the segment length.
func (l LeadIn) IsTerminated() bool {
	return l.NextSegmentOffset != NoNextSegment
}

// KnownVersion reports whether the version is one of the documented ones.
func (l LeadIn) KnownVersion() bool {
	return l.Version == Version1 || l.Version == Version2
}

// MetadataSize returns the length of the metadata block that follows the lead-in.
func (l LeadIn) MetadataSize() uint64 {
	return l.RawDataOffset
}

// ParseLeadIn parses a LeadIn from a byte slice.
//
// Parameters:
//   - data: Byte slice holding at least 28 bytes
//
// Returns:
//   - LeadIn: Parsed lead-in
//   - error: Same errors as LeadIn.Parse
func ParseLeadIn(data []byte) (LeadIn, error) {
	l := LeadIn{}
	if err := l.Parse(data); err != nil {
		return LeadIn{}, err
	}

	return l, nil
}
