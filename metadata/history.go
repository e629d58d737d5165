package metadata

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
)

// History remembers the last data-carrying raw data index of every object
// path, so that Unchanged indexes resolve without rescanning earlier segments.
//
// A History is used by one sequential segment walk and is not safe for
// concurrent use.
type History struct {
	last map[string]RawDataIndex
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{last: make(map[string]RawDataIndex)}
}

// Resolve returns the effective index of the object at path and records it.
//
// Present and DAQmx indexes are recorded and returned. Unchanged resolves to
// the last recorded index of the same path. Absent is returned as is and
// leaves the history untouched.
//
// Returns:
//   - RawDataIndex: The effective index, never IndexUnchanged
//   - error: ErrMalformedMetadata when Unchanged has no earlier index to refer to
func (h *History) Resolve(path string, idx RawDataIndex) (RawDataIndex, error) {
	switch idx.Kind {
	case IndexUnchanged:
		prev, ok := h.last[path]
		if !ok {
			return RawDataIndex{}, fmt.Errorf("%w: %s reuses a raw data index that was never defined",
				errs.ErrMalformedMetadata, path)
		}

		return prev, nil
	case IndexPresent, IndexDAQmx:
		h.last[path] = idx
		return idx, nil
	default:
		return idx, nil
	}
}

// Lookup returns the last recorded index of path.
func (h *History) Lookup(path string) (RawDataIndex, bool) {
	idx, ok := h.last[path]
	return idx, ok
}

// Len returns the number of paths with a recorded index.
func (h *History) Len() int {
	return len(h.last)
}
