package layout

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/chain"
	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/source"
)

// ScalerValue is one raw scaler reading and the scaler it was read with.
// Digital line scalers yield the extracted bit as a Boolean value.
type ScalerValue struct {
	Scaler metadata.Scaler
	Value  encoding.Value
}

// DAQmxSample holds the scaler readings of one sample of a DAQmx channel.
type DAQmxSample struct {
	// Segment is the ordinal of the segment the sample was read from.
	Segment int
	// Values holds one reading per scaler, in scaler order.
	Values []ScalerValue
}

// DAQmxSamples returns the samples of a DAQmx channel. Values are the raw
// scaler readings; no scaling to physical units is applied.
func (r *Reader) DAQmxSamples(path string) iter.Seq2[DAQmxSample, error] {
	return func(yield func(DAQmxSample, error) bool) {
		ch, err := r.channel(path, format.TypeDAQmxRawData)
		if err != nil {
			yield(DAQmxSample{}, err)
			return
		}

		r.log.Debug("channel sequence started",
			zap.String("path", path), zap.Stringer("type", format.TypeDAQmxRawData), zap.Uint64("values", ch.Len()))

		for _, loc := range ch.Locations() {
			more, err := r.daqmx(loc, func(s DAQmxSample) bool {
				return yield(s, nil)
			})
			if err != nil {
				r.stopped(path, err)
				yield(DAQmxSample{}, err)

				return
			}

			if !more {
				return
			}
		}
	}
}

// daqmx walks the samples of loc. Within a chunk raw buffer b starts
// BufferOffset(b) bytes into the block and holds one row of width[b] bytes
// per sample. A window of m samples keeps the rows of every buffer, buffer
// by buffer.
func (r *Reader) daqmx(loc chain.Location, fn func(DAQmxSample) bool) (bool, error) {
	d := loc.Index.DAQmx
	stride := int(d.StrideBytes())
	if stride == 0 {
		return false, fmt.Errorf("%w: segment %d: DAQmx raw buffers have no width", errs.ErrMalformedMetadata, loc.Segment)
	}

	widths := make([]int, len(d.RawDataWidths))
	prefix := make([]int, len(d.RawDataWidths))
	for i, w := range d.RawDataWidths {
		widths[i] = int(w)
		if i > 0 {
			prefix[i] = prefix[i-1] + widths[i-1]
		}
	}

	perWindow := uint64(max(1, r.window/stride))

	buf := pool.GetWindowBuffer()
	defer pool.PutWindowBuffer(buf)

	for c, count := range chunkCounts(loc) {
		block := loc.ChunkStart(c)
		for k := uint64(0); k < count; {
			m := min(perWindow, count-k)
			short := false
			for i, w := range widths {
				if w == 0 {
					continue
				}
				pos := block + int64(loc.BufferOffset(i)) + int64(k)*int64(w)
				if fit := r.complete(pos, w, w); fit < m {
					m, short = fit, true
				}
			}

			b := buf.Resize(int(m) * stride)
			for i, w := range widths {
				if m == 0 || w == 0 {
					continue
				}
				part := b[int(m)*prefix[i] : int(m)*(prefix[i]+w)]
				pos := block + int64(loc.BufferOffset(i)) + int64(k)*int64(w)
				if err := source.ReadExactInto(r.src, pos, part); err != nil {
					return false, fmt.Errorf("segment %d chunk %d buffer %d sample %d: %w", loc.Segment, c, i, k, err)
				}
			}

			for j := range int(m) {
				sample := DAQmxSample{Segment: loc.Segment, Values: make([]ScalerValue, len(d.Scalers))}
				for si, s := range d.Scalers {
					w := widths[s.RawBufferIndex]
					rowStart := int(m)*prefix[s.RawBufferIndex] + j*w
					v, err := scalerValue(s, b[rowStart:rowStart+w], loc.Engine)
					if err != nil {
						return false, fmt.Errorf("segment %d scaler %d: %w", loc.Segment, si, err)
					}
					sample.Values[si] = ScalerValue{Scaler: s, Value: v}
				}

				if !fn(sample) {
					return false, nil
				}
			}

			if short {
				return false, fmt.Errorf("%w: segment %d chunk %d sample %d ends past the source size %d",
					errs.ErrTruncatedData, loc.Segment, c, k+m, r.src.Size())
			}
			k += m
		}
	}

	return true, nil
}

func scalerValue(s metadata.Scaler, row []byte, engine endian.EndianEngine) (encoding.Value, error) {
	if s.DigitalLine {
		byteOff, bit := int(s.RawByteOffset/8), s.RawByteOffset%8
		if byteOff >= len(row) {
			return encoding.Value{}, fmt.Errorf("%w: bit offset %d beyond a %d byte raw buffer",
				errs.ErrMalformedMetadata, s.RawByteOffset, len(row))
		}

		return encoding.Value{Type: format.TypeBoolean, V: row[byteOff]>>bit&1 == 1}, nil
	}

	v, _, err := encoding.DecodeValue(s.DataType, row, int(s.RawByteOffset), engine)
	if err != nil {
		return encoding.Value{}, fmt.Errorf("%w: %s at byte %d of a %d byte raw buffer: %w",
			errs.ErrMalformedMetadata, s.DataType, s.RawByteOffset, len(row), err)
	}

	return v, nil
}
