// Package layout reads channel values out of the raw data of a TDMS file.
//
// A Reader combines a chain.Index with the source it was built from. Every
// accessor returns a fresh, lazy, single-pass sequence: values are decoded
// while the caller ranges over it, the source is read in windows of at most
// WithReadWindow bytes, and breaking out of the loop stops all reading.
//
//	r, err := layout.NewReader(idx, src)
//	if err != nil {
//	    return err
//	}
//
//	for v, err := range r.Float64s("/'Measurements'/'Pressure'") {
//	    if err != nil {
//	        return err
//	    }
//	    process(v)
//	}
//
// # Layouts
//
// Standard segments store each channel as a contiguous run per chunk,
// interleaved segments store one value of every channel per stride, and
// DAQmx segments store scaler values inside shared raw buffers. Each segment
// is decoded with its own byte order, so one channel may mix little- and
// big-endian segments.
//
// # Errors
//
// An accessor whose type does not match the channel yields ErrTypeMismatch
// before reading anything; CheckType reports the same error up front. When the
// source ends before a value the sequence yields ErrTruncatedData and stops.
//
// Sequences share no state, so any number of them may run concurrently over
// one Reader.
package layout
