package chain

import (
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/section"
)

// Entry is one object of a segment's resolved object list.
type Entry struct {
	// Path is the quoted object path.
	Path string
	// Index is the effective raw data index; it is never IndexUnchanged.
	Index metadata.RawDataIndex
}

// Segment describes one parsed segment.
type Segment struct {
	// Ordinal is the position of the segment in the file, starting at 0.
	Ordinal int
	// Offset is the absolute position of the lead-in.
	Offset int64
	LeadIn section.LeadIn
	// Objects is the resolved object list in raw data order.
	Objects []Entry
	// RawDataStart and RawDataEnd bound the raw data bytes that are present
	// in the source. RawDataEnd is exclusive.
	RawDataStart int64
	RawDataEnd   int64
	// ChunkSize is the size of one repetition of the segment's data layout.
	ChunkSize uint64
	// Chunks counts the complete chunks.
	Chunks uint64
	// PartialBytes is the size of the incomplete chunk after the last
	// complete one.
	PartialBytes uint64
	// Truncated is set when the source ends before the segment's declared end.
	Truncated bool
}

// Toc returns the segment's table of contents.
func (s *Segment) Toc() section.TocFlag {
	return s.LeadIn.Toc
}

// Engine returns the byte order of the segment.
func (s *Segment) Engine() endian.EndianEngine {
	return s.LeadIn.Toc.GetEndianEngine()
}

// Interleaved reports whether the segment stores its values interleaved.
func (s *Segment) Interleaved() bool {
	return s.LeadIn.Toc.IsInterleaved()
}

// RawDataSize returns the number of raw data bytes present in the source.
func (s *Segment) RawDataSize() int64 {
	return s.RawDataEnd - s.RawDataStart
}

// Layout names the arrangement of a channel's values in a segment.
type Layout uint8

const (
	LayoutStandard    Layout = iota // LayoutStandard stores each channel as one contiguous run per chunk.
	LayoutInterleaved               // LayoutInterleaved stores one value of every channel per stride.
	LayoutDAQmx                     // LayoutDAQmx stores scaler values in shared raw buffers.
)

func (l Layout) String() string {
	switch l {
	case LayoutStandard:
		return "Standard"
	case LayoutInterleaved:
		return "Interleaved"
	case LayoutDAQmx:
		return "DAQmx"
	default:
		return "Unknown"
	}
}

// Location places a channel's values inside one segment.
//
// Value k of chunk c is found at:
//
//	Standard:    Start + c*ChunkSize + k*Stride
//	Interleaved: Start + c*ChunkSize + k*Stride
//	DAQmx:       Start + c*ChunkSize + BufferOffset(b) + k*width[b] + scaler offset
//
// String channels store an offset table followed by the string bytes at
// Start + c*ChunkSize, see Index.TotalSize.
type Location struct {
	// Segment is the ordinal of the owning segment.
	Segment int
	// Index is the effective raw data index of the channel in the segment.
	Index  metadata.RawDataIndex
	Layout Layout
	// Engine is the byte order of the owning segment.
	Engine endian.EndianEngine
	// Start is the absolute position of the channel's data in the first chunk.
	Start int64
	// Stride is the distance between consecutive values. Zero for DAQmx and
	// String channels.
	Stride uint64
	// ChunkSize is the distance between chunks.
	ChunkSize uint64
	// Chunks counts complete chunks.
	Chunks uint64
	// PartialValues counts the values present in an incomplete trailing chunk.
	PartialValues uint64
}

// Len returns the number of values the location contributes.
func (l Location) Len() uint64 {
	return l.Index.NumberOfValues*l.Chunks + l.PartialValues
}

// ChunkStart returns the absolute position of the channel's data in chunk c.
func (l Location) ChunkStart(c uint64) int64 {
	return l.Start + int64(c*l.ChunkSize)
}

// BufferOffset returns the offset of DAQmx raw buffer b from the start of the
// DAQmx block of a chunk.
func (l Location) BufferOffset(b int) uint64 {
	if l.Index.DAQmx == nil {
		return 0
	}

	var off uint64
	for _, w := range l.Index.DAQmx.RawDataWidths[:b] {
		off += uint64(w)
	}

	return off * l.Index.NumberOfValues
}
