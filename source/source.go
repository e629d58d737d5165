// Package source provides the byte sources the TDMS decoder reads from.
//
// The decoder only needs positioned reads and the total size, so any
// io.ReaderAt with a Size method works: *bytes.Reader, *io.SectionReader,
// or the File and archive sources of this package. Positioned reads let
// several channel readers share one source without locking.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tdms/errs"
)

// ByteSource is the read interface consumed by the decoder.
type ByteSource interface {
	io.ReaderAt
	// Size returns the total number of bytes in the source.
	Size() int64
}

// ReadCloser is a ByteSource that holds resources.
type ReadCloser interface {
	ByteSource
	io.Closer
}

// FromBytes returns an in-memory source over b. The slice must not be modified
// while the source is in use.
func FromBytes(b []byte) ByteSource {
	return bytes.NewReader(b)
}

// memory is an in-memory ReadCloser, used for decompressed archives.
type memory struct {
	*bytes.Reader
}

func (memory) Close() error { return nil }

// ReadExact reads exactly n bytes at off into a new slice.
func ReadExact(src ByteSource, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := ReadExactInto(src, off, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadExactInto fills buf from src starting at off.
//
// Returns:
//   - error: ErrTruncatedData when the source ends before buf is full,
//     the wrapped source error for any other read failure
func ReadExactInto(src ByteSource, off int64, buf []byte) error {
	if off < 0 {
		return fmt.Errorf("%w: negative offset %d", errs.ErrTruncatedData, off)
	}

	if size := src.Size(); off > size || int64(len(buf)) > size-off {
		return fmt.Errorf("%w: need %d bytes at offset %d, source has %d",
			errs.ErrTruncatedData, len(buf), off, max(size-off, 0))
	}

	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}

	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read %d of %d bytes at offset %d", errs.ErrTruncatedData, n, len(buf), off)
	}

	return fmt.Errorf("read %d bytes at offset %d: %w", len(buf), off, err)
}
