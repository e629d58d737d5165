package section

import "math"

// Table of contents bit masks.
const (
	TocMetaData     = 1 << 1 // TocMetaData is set when the segment carries a metadata block.
	TocNewObjList   = 1 << 2 // TocNewObjList is set when the object list replaces the previous one.
	TocRawData      = 1 << 3 // TocRawData is set when the segment carries raw data.
	TocInterleaved  = 1 << 5 // TocInterleaved is set when raw data values are interleaved.
	TocBigEndian    = 1 << 6 // TocBigEndian is set when the segment uses big-endian byte order.
	TocDAQmxRawData = 1 << 7 // TocDAQmxRawData is set when the segment carries DAQmx raw data.

	tocKnownMask = TocMetaData | TocNewObjList | TocRawData | TocInterleaved | TocBigEndian | TocDAQmxRawData
)

// Lead-in layout.
const (
	LeadInSize = 28 // fixed lead-in size in bytes

	tagOffset        = 0
	tocOffset        = 4
	versionOffset    = 8
	nextOffsetOffset = 12
	rawOffsetOffset  = 20

	// NoNextSegment marks a segment whose writer never finished it; the
	// segment extends to the end of the source.
	NoNextSegment = math.MaxUint64
)

// Tag is the magic that opens every segment.
const Tag = "TDSm"

// Known format versions.
const (
	Version1 = 4712
	Version2 = 4713
)
