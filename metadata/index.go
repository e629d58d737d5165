package metadata

import (
	"fmt"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Raw data index leading values.
const (
	RawIndexAbsent    uint32 = 0xFFFFFFFF // no raw data for the object in this segment
	RawIndexUnchanged uint32 = 0x00000000 // same index as the previous segment

	DAQmxFormatChangingMarker uint32 = 0x00001269 // DAQmx index with format changing scalers
	DAQmxDigitalLineMarker    uint32 = 0x0000126A // DAQmx index with digital line scalers
)

const (
	formatChangingScalerSize = 20
	digitalLineScalerSize    = 17
	standardIndexSize        = 20
	stringIndexSize          = 28
)

// IndexKind tells how an object's raw data index was recorded.
type IndexKind uint8

const (
	IndexAbsent    IndexKind = iota // IndexAbsent means the object has no raw data in the segment.
	IndexUnchanged                  // IndexUnchanged means the previous index applies.
	IndexPresent                    // IndexPresent is a standard index.
	IndexDAQmx                      // IndexDAQmx is a DAQmx scaler index.
)

func (k IndexKind) String() string {
	switch k {
	case IndexAbsent:
		return "Absent"
	case IndexUnchanged:
		return "Unchanged"
	case IndexPresent:
		return "Present"
	case IndexDAQmx:
		return "DAQmx"
	default:
		return "Unknown"
	}
}

// RawDataIndex describes the raw data of one object in one segment.
type RawDataIndex struct {
	Kind IndexKind
	// DataType of the values, TypeDAQmxRawData for DAQmx indexes.
	DataType format.DataType
	// ArrayDimension is always 1 in valid files.
	ArrayDimension uint32
	// NumberOfValues per chunk.
	NumberOfValues uint64
	// TotalSize is the byte size per chunk of a String channel: the offset
	// table plus the string bytes. Zero for other types.
	TotalSize uint64
	// DAQmx is set for IndexDAQmx.
	DAQmx *DAQmxIndex
}

// AbsentIndex returns the index of an object without raw data.
func AbsentIndex() RawDataIndex {
	return RawDataIndex{Kind: IndexAbsent}
}

// UnchangedIndex returns the index of an object that reuses its previous index.
func UnchangedIndex() RawDataIndex {
	return RawDataIndex{Kind: IndexUnchanged}
}

// NewIndex returns a standard index for n fixed-width values of type t.
func NewIndex(t format.DataType, n uint64) RawDataIndex {
	return RawDataIndex{Kind: IndexPresent, DataType: t, ArrayDimension: 1, NumberOfValues: n}
}

// NewStringIndex returns a standard index for n strings whose offset table
// and bytes take totalSize bytes.
func NewStringIndex(n, totalSize uint64) RawDataIndex {
	return RawDataIndex{Kind: IndexPresent, DataType: format.TypeString, ArrayDimension: 1, NumberOfValues: n, TotalSize: totalSize}
}

// HasData reports whether the index places values in the segment's raw data.
func (r RawDataIndex) HasData() bool {
	return (r.Kind == IndexPresent || r.Kind == IndexDAQmx) && r.NumberOfValues > 0
}

// ChunkBytes returns the number of raw data bytes the object takes in one
// chunk of a standard segment. DAQmx objects share raw buffers and report 0.
func (r RawDataIndex) ChunkBytes() uint64 {
	if r.Kind != IndexPresent {
		return 0
	}

	if r.DataType == format.TypeString {
		return r.TotalSize
	}

	return r.NumberOfValues * uint64(max(r.DataType.Size(), 0))
}

// DAQmxIndex is the DAQmx form of a raw data index.
type DAQmxIndex struct {
	// Marker is DAQmxFormatChangingMarker or DAQmxDigitalLineMarker.
	Marker uint32
	// Scalers describe where each scaler value sits inside the raw buffers.
	Scalers []Scaler
	// RawDataWidths holds the stride of each raw buffer in bytes.
	RawDataWidths []uint32
}

// IsDigitalLine reports whether the index uses digital line scalers.
func (d *DAQmxIndex) IsDigitalLine() bool {
	return d.Marker == DAQmxDigitalLineMarker
}

// StrideBytes returns the sum of all raw buffer widths.
func (d *DAQmxIndex) StrideBytes() uint64 {
	var total uint64
	for _, w := range d.RawDataWidths {
		total += uint64(w)
	}

	return total
}

// Scaler locates one scaler value inside the DAQmx raw buffers.
type Scaler struct {
	// DataType to decode at the scaler position.
	DataType format.DataType
	// RawBufferIndex selects the raw buffer.
	RawBufferIndex uint32
	// RawByteOffset is the byte offset within the buffer stride, or the bit
	// offset for digital line scalers.
	RawByteOffset uint32
	// SampleFormatBitmap is stored as one byte for digital line scalers.
	SampleFormatBitmap uint32
	ScaleID            uint32
	DigitalLine        bool
}

// parseIndex decodes the raw data index that follows an object path.
func parseIndex(c *cursor, daqmx bool) (RawDataIndex, error) {
	lead, err := c.u32("raw data index length")
	if err != nil {
		return RawDataIndex{}, err
	}

	switch {
	case lead == RawIndexAbsent:
		return AbsentIndex(), nil
	case lead == RawIndexUnchanged:
		return UnchangedIndex(), nil
	case daqmx && (lead == DAQmxFormatChangingMarker || lead == DAQmxDigitalLineMarker):
		return parseDAQmxIndex(c, lead)
	default:
		return parseStandardIndex(c, lead)
	}
}

func parseStandardIndex(c *cursor, length uint32) (RawDataIndex, error) {
	if uint64(length) > uint64(c.remaining()+4) {
		return RawDataIndex{}, fmt.Errorf("%w: raw data index length %d exceeds metadata block",
			errs.ErrMalformedMetadata, length)
	}

	// The length counts its own four bytes.
	start := c.off - 4

	var err error
	idx := RawDataIndex{Kind: IndexPresent}
	if idx.DataType, err = c.dataType("raw data type"); err != nil {
		return RawDataIndex{}, err
	}

	if idx.DataType == format.TypeDAQmxRawData {
		return RawDataIndex{}, fmt.Errorf("%w: DAQmx data type in a standard index", errs.ErrMalformedMetadata)
	}

	if idx.ArrayDimension, err = c.u32("array dimension"); err != nil {
		return RawDataIndex{}, err
	}

	if idx.ArrayDimension != 1 {
		return RawDataIndex{}, fmt.Errorf("%w: array dimension %d", errs.ErrMalformedMetadata, idx.ArrayDimension)
	}

	if idx.NumberOfValues, err = c.u64("number of values"); err != nil {
		return RawDataIndex{}, err
	}

	if idx.DataType == format.TypeString {
		if idx.TotalSize, err = c.u64("total size"); err != nil {
			return RawDataIndex{}, err
		}
	}

	consumed := c.off - start
	if consumed > int(length) {
		return RawDataIndex{}, fmt.Errorf("%w: raw data index length %d shorter than its %d byte body",
			errs.ErrMalformedMetadata, length, consumed)
	}

	c.off = start + int(length)

	return idx, nil
}

func parseDAQmxIndex(c *cursor, marker uint32) (RawDataIndex, error) {
	code, err := c.u32("DAQmx data type")
	if err != nil {
		return RawDataIndex{}, err
	}

	if format.DataType(code) != format.TypeDAQmxRawData {
		return RawDataIndex{}, fmt.Errorf("%w: DAQmx index with data type 0x%X", errs.ErrMalformedMetadata, code)
	}

	idx := RawDataIndex{Kind: IndexDAQmx, DataType: format.TypeDAQmxRawData, DAQmx: &DAQmxIndex{Marker: marker}}
	if idx.ArrayDimension, err = c.u32("array dimension"); err != nil {
		return RawDataIndex{}, err
	}

	if idx.ArrayDimension != 1 {
		return RawDataIndex{}, fmt.Errorf("%w: array dimension %d", errs.ErrMalformedMetadata, idx.ArrayDimension)
	}

	if idx.NumberOfValues, err = c.u64("number of values"); err != nil {
		return RawDataIndex{}, err
	}

	digital := marker == DAQmxDigitalLineMarker
	scalerSize := formatChangingScalerSize
	if digital {
		scalerSize = digitalLineScalerSize
	}

	scalerCount, err := c.count("scaler count", scalerSize)
	if err != nil {
		return RawDataIndex{}, err
	}

	idx.DAQmx.Scalers = make([]Scaler, 0, scalerCount)
	for range scalerCount {
		s, err := parseScaler(c, digital)
		if err != nil {
			return RawDataIndex{}, err
		}
		idx.DAQmx.Scalers = append(idx.DAQmx.Scalers, s)
	}

	widthCount, err := c.count("raw data width count", 4)
	if err != nil {
		return RawDataIndex{}, err
	}

	idx.DAQmx.RawDataWidths = make([]uint32, 0, widthCount)
	for range widthCount {
		w, err := c.u32("raw data width")
		if err != nil {
			return RawDataIndex{}, err
		}
		idx.DAQmx.RawDataWidths = append(idx.DAQmx.RawDataWidths, w)
	}

	for i, s := range idx.DAQmx.Scalers {
		if int(s.RawBufferIndex) >= len(idx.DAQmx.RawDataWidths) {
			return RawDataIndex{}, fmt.Errorf("%w: scaler %d references raw buffer %d of %d",
				errs.ErrMalformedMetadata, i, s.RawBufferIndex, len(idx.DAQmx.RawDataWidths))
		}
	}

	return idx, nil
}

func parseScaler(c *cursor, digital bool) (Scaler, error) {
	var (
		s   = Scaler{DigitalLine: digital}
		err error
	)

	if s.DataType, err = c.dataType("scaler data type"); err != nil {
		return Scaler{}, err
	}

	if !s.DataType.IsFixedSize() {
		return Scaler{}, fmt.Errorf("%w: scaler data type %s has no fixed width", errs.ErrMalformedMetadata, s.DataType)
	}

	if s.RawBufferIndex, err = c.u32("raw buffer index"); err != nil {
		return Scaler{}, err
	}

	if s.RawByteOffset, err = c.u32("raw byte offset"); err != nil {
		return Scaler{}, err
	}

	if digital {
		bitmap, err := c.u8("sample format bitmap")
		if err != nil {
			return Scaler{}, err
		}
		s.SampleFormatBitmap = uint32(bitmap)
	} else if s.SampleFormatBitmap, err = c.u32("sample format bitmap"); err != nil {
		return Scaler{}, err
	}

	if s.ScaleID, err = c.u32("scale id"); err != nil {
		return Scaler{}, err
	}

	return s, nil
}

// AppendTo appends the encoded index, leading value included.
func (r RawDataIndex) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	switch r.Kind {
	case IndexAbsent:
		return engine.AppendUint32(dst, RawIndexAbsent)
	case IndexUnchanged:
		return engine.AppendUint32(dst, RawIndexUnchanged)
	case IndexDAQmx:
		return r.appendDAQmx(dst, engine)
	}

	length := uint32(standardIndexSize)
	if r.DataType == format.TypeString {
		length = stringIndexSize
	}

	dst = engine.AppendUint32(dst, length)
	dst = engine.AppendUint32(dst, uint32(r.DataType))
	dst = engine.AppendUint32(dst, r.ArrayDimension)
	dst = engine.AppendUint64(dst, r.NumberOfValues)
	if r.DataType == format.TypeString {
		dst = engine.AppendUint64(dst, r.TotalSize)
	}

	return dst
}

func (r RawDataIndex) appendDAQmx(dst []byte, engine endian.EndianEngine) []byte {
	d := r.DAQmx
	dst = engine.AppendUint32(dst, d.Marker)
	dst = engine.AppendUint32(dst, uint32(format.TypeDAQmxRawData))
	dst = engine.AppendUint32(dst, r.ArrayDimension)
	dst = engine.AppendUint64(dst, r.NumberOfValues)
	dst = engine.AppendUint32(dst, uint32(len(d.Scalers))) //nolint:gosec

	for _, s := range d.Scalers {
		dst = engine.AppendUint32(dst, uint32(s.DataType))
		dst = engine.AppendUint32(dst, s.RawBufferIndex)
		dst = engine.AppendUint32(dst, s.RawByteOffset)
		if s.DigitalLine {
			dst = append(dst, uint8(s.SampleFormatBitmap)) //nolint:gosec
		} else {
			dst = engine.AppendUint32(dst, s.SampleFormatBitmap)
		}
		dst = engine.AppendUint32(dst, s.ScaleID)
	}

	dst = engine.AppendUint32(dst, uint32(len(d.RawDataWidths))) //nolint:gosec
	for _, w := range d.RawDataWidths {
		dst = engine.AppendUint32(dst, w)
	}

	return dst
}
