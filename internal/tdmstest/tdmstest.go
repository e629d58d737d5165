// Package tdmstest builds TDMS files in memory for tests.
//
// Segments are encoded with the same primitives the decoder uses:
//
//	data := tdmstest.File(t,
//	    tdmstest.Segment{
//	        Toc:     tdmstest.NewList,
//	        Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 3))},
//	        Raw:     tdmstest.Values(t, endian.GetLittleEndianEngine(), format.TypeDoubleFloat, 1.0, 2.0, 3.0),
//	    })
package tdmstest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/section"
)

// Common tables of contents.
const (
	// NewList is a segment with a new object list and raw data.
	NewList = section.TocFlag(section.TocMetaData | section.TocNewObjList | section.TocRawData)
	// Appended is a segment whose metadata amends the previous object list.
	Appended = section.TocFlag(section.TocMetaData | section.TocRawData)
	// RawOnly is a segment that repeats the previous object list.
	RawOnly = section.TocFlag(section.TocRawData)
)

// Segment describes one segment to encode.
type Segment struct {
	Toc section.TocFlag
	// Version defaults to 4713.
	Version uint32
	Objects []metadata.Object
	Raw     []byte
	// Unterminated writes the all-ones next segment offset.
	Unterminated bool
	// MissingBytes is added to the declared segment length to simulate a
	// writer that stopped before flushing everything.
	MissingBytes uint64
}

// Encode serializes the segment.
func (s Segment) Encode() ([]byte, error) {
	engine := s.Toc.GetEndianEngine()

	var meta []byte
	if s.Toc.HasMetaData() {
		var err error
		if meta, err = metadata.Encode(s.Objects, engine); err != nil {
			return nil, err
		}
	}

	lead := section.NewLeadIn(s.Toc)
	if s.Version != 0 {
		lead.Version = s.Version
	}
	lead.RawDataOffset = uint64(len(meta))
	lead.NextSegmentOffset = uint64(len(meta)+len(s.Raw)) + s.MissingBytes
	if s.Unterminated {
		lead.NextSegmentOffset = section.NoNextSegment
	}

	out := lead.AppendTo(make([]byte, 0, section.LeadInSize+len(meta)+len(s.Raw)))
	out = append(out, meta...)
	out = append(out, s.Raw...)

	return out, nil
}

// File encodes segments one after another.
func File(tb testing.TB, segments ...Segment) []byte {
	tb.Helper()

	var out []byte
	for i, s := range segments {
		b, err := s.Encode()
		require.NoError(tb, err, "segment %d", i)
		out = append(out, b...)
	}

	return out
}

// Path quotes components into an object path.
func Path(components ...string) string {
	if len(components) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, c := range components {
		sb.WriteString("/'")
		sb.WriteString(strings.ReplaceAll(c, "'", "''"))
		sb.WriteString("'")
	}

	return sb.String()
}

// Root returns the file object.
func Root(props ...metadata.Property) metadata.Object {
	return metadata.Object{Path: "/", Index: metadata.AbsentIndex(), Properties: props}
}

// Group returns a group object.
func Group(name string, props ...metadata.Property) metadata.Object {
	return metadata.Object{Path: Path(name), Index: metadata.AbsentIndex(), Properties: props}
}

// Channel returns a channel object.
func Channel(group, name string, idx metadata.RawDataIndex, props ...metadata.Property) metadata.Object {
	return metadata.Object{Path: Path(group, name), Index: idx, Properties: props}
}

// Prop returns a property, panicking if v does not match t.
func Prop(name string, t format.DataType, v any) metadata.Property {
	return metadata.Property{Name: name, Value: encoding.MustValue(t, v)}
}

// Values encodes fixed-width values of type t back to back.
func Values(tb testing.TB, engine endian.EndianEngine, t format.DataType, values ...any) []byte {
	tb.Helper()

	var out []byte
	for _, v := range values {
		val, err := encoding.NewValue(t, v)
		require.NoError(tb, err)

		out, err = encoding.AppendValue(out, val, engine)
		require.NoError(tb, err)
	}

	return out
}

// Float64s encodes DoubleFloat values.
func Float64s(engine endian.EndianEngine, values ...float64) []byte {
	out := make([]byte, 0, 8*len(values))
	for _, v := range values {
		out = encoding.AppendFloat64(out, v, engine)
	}

	return out
}

// Int32s encodes I32 values.
func Int32s(engine endian.EndianEngine, values ...int32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = engine.AppendUint32(out, uint32(v))
	}

	return out
}

// Strings encodes the raw data of a String channel: the cumulative end
// offsets followed by the string bytes.
func Strings(engine endian.EndianEngine, values ...string) []byte {
	var (
		offsets []byte
		body    []byte
	)
	for _, v := range values {
		body = append(body, v...)
		offsets = engine.AppendUint32(offsets, uint32(len(body)))
	}

	return append(offsets, body...)
}

// StringIndex returns the raw data index of values as encoded by Strings.
func StringIndex(values ...string) metadata.RawDataIndex {
	total := 4 * len(values)
	for _, v := range values {
		total += len(v)
	}

	return metadata.NewStringIndex(uint64(len(values)), uint64(total))
}

// Interleave interleaves columns of fixed-width values. Column i holds
// values of widths[i] bytes; all columns must hold the same number of values.
func Interleave(widths []int, columns ...[]byte) []byte {
	if len(columns) == 0 {
		return nil
	}

	n := len(columns[0]) / widths[0]
	var out []byte
	for k := range n {
		for i, col := range columns {
			w := widths[i]
			out = append(out, col[k*w:(k+1)*w]...)
		}
	}

	return out
}
