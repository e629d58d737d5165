package layout

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Values returns the values of any channel except DAQmx ones as tagged
// values. Each value carries the data type of the segment it was read from.
func (r *Reader) Values(path string) iter.Seq2[encoding.Value, error] {
	return func(yield func(encoding.Value, error) bool) {
		ch, err := r.idx.Channel(path)
		if err != nil {
			yield(encoding.Value{}, err)
			return
		}

		if ch.DataType() == format.TypeDAQmxRawData {
			yield(encoding.Value{}, fmt.Errorf("%w: %s holds DAQmx raw data, use DAQmxSamples",
				errs.ErrTypeMismatch, path))

			return
		}

		r.log.Debug("channel sequence started", zap.String("path", path), zap.Uint64("values", ch.Len()))

		var decodeErr error
		for _, loc := range ch.Locations() {
			t := loc.Index.DataType

			var more bool
			switch {
			case t == format.TypeDAQmxRawData:
				err = fmt.Errorf("%w: %s holds DAQmx raw data in segment %d", errs.ErrTypeMismatch, path, loc.Segment)
			case t == format.TypeString:
				more, err = r.strings(loc, func(s string) bool {
					return yield(encoding.Value{Type: t, V: s}, nil)
				})
			default:
				engine := loc.Engine
				more, err = r.strided(loc, t.Size(), func(b []byte) bool {
					v, _, err := encoding.DecodeValue(t, b, 0, engine)
					if err != nil {
						decodeErr = err
						return false
					}

					return yield(v, nil)
				})
			}

			if err == nil {
				err = decodeErr
			}

			if err != nil {
				r.stopped(path, err)
				yield(encoding.Value{}, err)

				return
			}

			if !more {
				return
			}
		}
	}
}
