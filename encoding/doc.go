// Package encoding decodes the primitive values of the TDMS format.
//
// Every function takes the byte slice, the offset of the value inside it and,
// for multi-byte values, the endian engine of the owning segment. Read
// functions return the value together with the number of bytes consumed, so
// callers can walk a metadata block without tracking widths themselves:
//
//	count, n, err := encoding.ReadUint32(meta, off, engine)
//	if err != nil {
//	    return err
//	}
//	off += n
//
// A Read function never reads past the end of the slice. When fewer bytes
// remain than the value needs it returns errs.ErrTruncatedData.
//
// # Value Types
//
//	DataType              | Go type       | Width
//	----------------------|---------------|------
//	I8 / I16 / I32 / I64  | int8 .. int64 | 1-8
//	U8 / U16 / U32 / U64  | uint8..uint64 | 1-8
//	SingleFloat(WithUnit) | float32       | 4
//	DoubleFloat(WithUnit) | float64       | 8
//	ExtendedFloat(...)    | Extended      | 10
//	String                | string        | 4 + n
//	Boolean               | bool          | 1
//	TimeStamp             | Timestamp     | 16
//	FixedPoint            | FixedPoint    | 10
//	ComplexSingleFloat    | complex64     | 8
//	ComplexDoubleFloat    | complex128    | 16
//
// Strings are prefixed by a u32 byte length that is always little-endian,
// and must hold valid UTF-8.
//
// The Decode functions are the unchecked counterparts used by the raw data
// engine once it has verified that a whole value is buffered. The Append
// functions encode values in the same layout; they exist for building
// fixtures and checking round trips, not for writing files.
package encoding
