// Package metadata decodes the metadata block of a TDMS segment.
//
// A metadata block lists objects: the root "/", groups "/'g'" and channels
// "/'g'/'c'". Every entry carries a raw data index and a property list:
//
//	object count       u32
//	per object:
//	  path             length-prefixed string
//	  raw data index   u32 lead + body
//	  property count   u32
//	  per property:    name string, type u32, value
//
// The raw data index lead is 0xFFFFFFFF when the object has no data in the
// segment, 0 when the previous index still applies, 0x1269 or 0x126A for a
// DAQmx index in a segment flagged as DAQmx, and otherwise the byte length of
// a standard index. Parse returns indexes as written; History resolves the
// Unchanged ones against earlier segments.
package metadata
