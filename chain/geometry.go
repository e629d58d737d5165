package chain

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/metadata"
)

// placement is the position of one data-carrying entry inside a chunk.
type placement struct {
	entry  int
	layout Layout
	offset uint64 // from the start of the chunk
	run    uint64 // bytes per chunk, standard and DAQmx
	width  uint64 // bytes per value, zero for strings
	stride uint64
}

func mulSize(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > maxRawSize {
		return 0, fmt.Errorf("%w: raw data size %d x %d overflows", errs.ErrMalformedMetadata, a, b)
	}

	return lo, nil
}

func addSize(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 || sum > maxRawSize {
		return 0, fmt.Errorf("%w: raw data size %d + %d overflows", errs.ErrMalformedMetadata, a, b)
	}

	return sum, nil
}

// maxRawSize keeps every chunk offset representable as an int64 file position.
const maxRawSize = 1<<63 - 1

// placeObjects lays out the data-carrying entries of seg inside one chunk.
//
// Returns:
//   - []placement: One placement per entry with data, in object list order
//   - uint64: The chunk size
//   - error: ErrMalformedMetadata or ErrUnsupportedLayout
func placeObjects(seg *Segment) ([]placement, uint64, error) {
	if seg.Interleaved() {
		return placeInterleaved(seg.Objects)
	}

	return placeStandard(seg.Objects)
}

// placeStandard gives every channel one contiguous run per chunk. DAQmx
// channels share a single block of raw buffers placed where the first of
// them is listed.
func placeStandard(objects []Entry) ([]placement, uint64, error) {
	var (
		places []placement
		offset uint64
		block  *metadata.RawDataIndex
		blkOff uint64
	)

	for i, e := range objects {
		idx := e.Index
		if !idx.HasData() || idx.DataType == format.TypeVoid {
			continue
		}

		switch idx.Kind {
		case metadata.IndexDAQmx:
			if block != nil {
				if idx.NumberOfValues != block.NumberOfValues ||
					!slices.Equal(idx.DAQmx.RawDataWidths, block.DAQmx.RawDataWidths) {
					return nil, 0, fmt.Errorf("%w: %s does not share the raw buffers of the segment",
						errs.ErrMalformedMetadata, e.Path)
				}
				places = append(places, placement{entry: i, layout: LayoutDAQmx, offset: blkOff})

				continue
			}

			run, err := mulSize(idx.NumberOfValues, idx.DAQmx.StrideBytes())
			if err != nil {
				return nil, 0, err
			}

			block, blkOff = &objects[i].Index, offset
			places = append(places, placement{entry: i, layout: LayoutDAQmx, offset: offset, run: run})
			if offset, err = addSize(offset, run); err != nil {
				return nil, 0, err
			}
		case metadata.IndexPresent:
			p := placement{entry: i, layout: LayoutStandard, offset: offset}
			if idx.DataType == format.TypeString {
				if idx.TotalSize/4 < idx.NumberOfValues {
					return nil, 0, fmt.Errorf("%w: %s: %d strings do not fit in %d bytes",
						errs.ErrMalformedMetadata, e.Path, idx.NumberOfValues, idx.TotalSize)
				}
				p.run = idx.TotalSize
			} else {
				p.width = uint64(idx.DataType.Size())
				p.stride = p.width

				var err error
				if p.run, err = mulSize(idx.NumberOfValues, p.width); err != nil {
					return nil, 0, err
				}
			}

			places = append(places, p)

			var err error
			if offset, err = addSize(offset, p.run); err != nil {
				return nil, 0, err
			}
		}
	}

	return places, offset, nil
}

// placeInterleaved interleaves one value of every channel per stride. All
// channels must hold fixed-width values and the same number of them.
func placeInterleaved(objects []Entry) ([]placement, uint64, error) {
	var (
		places []placement
		stride uint64
		count  uint64
	)

	for i, e := range objects {
		idx := e.Index
		if !idx.HasData() || idx.DataType == format.TypeVoid {
			continue
		}

		if idx.Kind == metadata.IndexDAQmx || !idx.DataType.IsFixedSize() {
			return nil, 0, fmt.Errorf("%w: %s values of %s in an interleaved segment",
				errs.ErrUnsupportedLayout, idx.DataType, e.Path)
		}

		if len(places) == 0 {
			count = idx.NumberOfValues
		} else if idx.NumberOfValues != count {
			return nil, 0, fmt.Errorf("%w: interleaved channel %s has %d values, expected %d",
				errs.ErrMalformedMetadata, e.Path, idx.NumberOfValues, count)
		}

		width := uint64(idx.DataType.Size())
		places = append(places, placement{entry: i, layout: LayoutInterleaved, offset: stride, width: width})
		stride += width
	}

	for i := range places {
		places[i].stride = stride
	}

	chunk, err := mulSize(count, stride)
	if err != nil {
		return nil, 0, err
	}

	return places, chunk, nil
}

// partialValues counts the values of p that are complete within the first
// rem bytes of an incomplete chunk.
func partialValues(p placement, idx metadata.RawDataIndex, rem uint64) uint64 {
	if rem <= p.offset {
		return 0
	}
	avail := rem - p.offset

	switch p.layout {
	case LayoutInterleaved:
		full := rem / p.stride
		if rem%p.stride >= p.offset+p.width {
			full++
		}

		return min(full, idx.NumberOfValues)
	case LayoutDAQmx:
		return partialDAQmx(idx, avail)
	default:
		if p.width == 0 {
			// String offsets and bytes cannot be split.
			return 0
		}

		return min(avail, p.run) / p.width
	}
}

func partialDAQmx(idx metadata.RawDataIndex, avail uint64) uint64 {
	d := idx.DAQmx
	if len(d.Scalers) == 0 {
		return 0
	}

	n := idx.NumberOfValues
	var bufStart []uint64
	var off uint64
	for _, w := range d.RawDataWidths {
		bufStart = append(bufStart, off)
		off += uint64(w) * n
	}

	count := n
	for _, s := range d.Scalers {
		w := uint64(d.RawDataWidths[s.RawBufferIndex])
		start := bufStart[s.RawBufferIndex]
		if w == 0 || avail <= start {
			return 0
		}
		count = min(count, (avail-start)/w)
	}

	return count
}
