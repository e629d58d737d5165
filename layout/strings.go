package layout

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/chain"
	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/source"
)

// Strings returns the values of a String channel.
func (r *Reader) Strings(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ch, err := r.channel(path, format.TypeString)
		if err != nil {
			yield("", err)
			return
		}

		r.log.Debug("channel sequence started",
			zap.String("path", path), zap.Stringer("type", format.TypeString), zap.Uint64("values", ch.Len()))

		for _, loc := range ch.Locations() {
			more, err := r.strings(loc, func(s string) bool {
				return yield(s, nil)
			})
			if err != nil {
				r.stopped(path, err)
				yield("", err)

				return
			}

			if !more {
				return
			}
		}
	}
}

// strings decodes the string chunks of loc. A chunk is read as a whole: its
// offset table of n cumulative end offsets followed by the string bytes.
func (r *Reader) strings(loc chain.Location, fn func(string) bool) (bool, error) {
	n := int(loc.Index.NumberOfValues)
	table := 4 * n

	buf := pool.GetWindowBuffer()
	defer pool.PutWindowBuffer(buf)

	for c := range loc.Chunks {
		b := buf.Resize(int(loc.Index.TotalSize))
		if err := source.ReadExactInto(r.src, loc.ChunkStart(c), b); err != nil {
			return false, fmt.Errorf("segment %d chunk %d: %w", loc.Segment, c, err)
		}

		body := b[table:]
		var start uint32
		for k := range n {
			end := loc.Engine.Uint32(b[4*k:])
			if end < start || uint64(end) > uint64(len(body)) {
				return false, fmt.Errorf("%w: segment %d chunk %d: string %d ends at %d, outside [%d, %d]",
					errs.ErrMalformedString, loc.Segment, c, k, end, start, len(body))
			}

			s, err := encoding.DecodeString(body[start:end])
			if err != nil {
				return false, fmt.Errorf("segment %d chunk %d string %d: %w", loc.Segment, c, k, err)
			}

			if !fn(s) {
				return false, nil
			}
			start = end
		}
	}

	return true, nil
}
