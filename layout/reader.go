package layout

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/chain"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/options"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/source"
)

// Reader decodes channel values of an indexed file.
type Reader struct {
	idx    *chain.Index
	src    source.ByteSource
	log    *zap.Logger
	window int
}

// NewReader creates a Reader over the index and the source it was built from.
//
// Returns:
//   - *Reader: The reader
//   - error: ErrInvalidOption for a rejected option
func NewReader(idx *chain.Index, src source.ByteSource, opts ...Option) (*Reader, error) {
	cfg := &config{logger: zap.NewNop(), window: DefaultReadWindow}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Reader{idx: idx, src: src, log: cfg.logger, window: cfg.window}, nil
}

// Index returns the index the reader decodes.
func (r *Reader) Index() *chain.Index {
	return r.idx
}

// CheckType verifies that the channel at path exists and holds values of
// type want in every segment. "With unit" float types match their plain
// counterparts.
//
// Returns:
//   - error: ErrChannelNotFound or ErrTypeMismatch
func (r *Reader) CheckType(path string, want format.DataType) error {
	_, err := r.channel(path, want)
	return err
}

func (r *Reader) channel(path string, want format.DataType) (*chain.Channel, error) {
	ch, err := r.idx.Channel(path)
	if err != nil {
		return nil, err
	}

	if err := checkType(ch, want); err != nil {
		return nil, err
	}

	return ch, nil
}

func checkType(ch *chain.Channel, want format.DataType) error {
	locs := ch.Locations()
	if len(locs) == 0 {
		if dt := ch.DataType(); dt != format.TypeVoid && dt.Base() != want.Base() {
			return fmt.Errorf("%w: %s holds %s, not %s", errs.ErrTypeMismatch, ch.Path(), dt, want)
		}

		return nil
	}

	for _, loc := range locs {
		if got := loc.Index.DataType; got.Base() != want.Base() {
			return fmt.Errorf("%w: %s holds %s in segment %d, not %s",
				errs.ErrTypeMismatch, ch.Path(), got, loc.Segment, want)
		}
	}

	return nil
}

// chunkCounts iterates over the chunks of loc with the number of values each holds.
func chunkCounts(loc chain.Location) iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		for c := range loc.Chunks {
			if !yield(c, loc.Index.NumberOfValues) {
				return
			}
		}

		if loc.PartialValues > 0 {
			yield(loc.Chunks, loc.PartialValues)
		}
	}
}

// strided calls fn with the bytes of every value of loc, where value k of a
// chunk sits k*Stride bytes after the chunk start.
//
// Returns:
//   - bool: false when fn stopped the walk
//   - error: ErrTruncatedData or a source read error
func (r *Reader) strided(loc chain.Location, width int, fn func([]byte) bool) (bool, error) {
	stride := max(int(loc.Stride), width)
	perWindow := uint64(max(1, r.window/stride))

	buf := pool.GetWindowBuffer()
	defer pool.PutWindowBuffer(buf)

	for c, count := range chunkCounts(loc) {
		base := loc.ChunkStart(c)
		for k := uint64(0); k < count; {
			pos := base + int64(k)*int64(stride)
			m := min(perWindow, count-k)
			short := false
			if fit := r.complete(pos, stride, width); fit < m {
				m, short = fit, true
			}

			if m > 0 {
				b := buf.Resize(int(m-1)*stride + width)
				if err := source.ReadExactInto(r.src, pos, b); err != nil {
					return false, fmt.Errorf("segment %d chunk %d value %d: %w", loc.Segment, c, k, err)
				}

				for j := range int(m) {
					if !fn(b[j*stride : j*stride+width]) {
						return false, nil
					}
				}
			}

			if short {
				return false, fmt.Errorf("%w: segment %d chunk %d value %d ends past the source size %d",
					errs.ErrTruncatedData, loc.Segment, c, k+m, r.src.Size())
			}
			k += m
		}
	}

	return true, nil
}

// complete counts the values of width bytes, stride bytes apart from pos,
// that lie entirely inside the source.
func (r *Reader) complete(pos int64, stride, width int) uint64 {
	avail := r.src.Size() - pos
	if avail < int64(width) {
		return 0
	}

	return uint64((avail-int64(width))/int64(stride)) + 1
}

// stopped logs the error that ends a sequence.
func (r *Reader) stopped(path string, err error) {
	r.log.Debug("channel sequence stopped", zap.String("path", path), zap.Error(err))
}

// Collect drains a sequence into a slice, stopping at the first error.
//
// Returns:
//   - []T: The values read before the error
//   - error: The first error the sequence yielded
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}

	return out, nil
}
