// Package section defines the fixed-size structures at the start of every TDMS segment.
//
// A TDMS file is a sequence of segments. Each segment opens with a 28-byte lead-in
// followed by an optional metadata block and optional raw data:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Lead-in (28 bytes, fixed)                               │
//	│  - Tag "TDSm" (4 bytes)                                 │
//	│  - Table of contents (4 bytes, always little-endian)    │
//	│  - Version (4 bytes)                                    │
//	│  - Next segment offset (8 bytes)                        │
//	│  - Raw data offset (8 bytes)                            │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata (raw data offset bytes, optional)              │
//	├─────────────────────────────────────────────────────────┤
//	│ Raw data (next segment offset - raw data offset bytes)  │
//	└─────────────────────────────────────────────────────────┘
//
// The table of contents selects the byte order of everything after it, so
// LeadIn.Parse decodes the ToC first and uses TocFlag.GetEndianEngine for the
// remaining fields.
//
//	leadIn, err := section.ParseLeadIn(buf)
//	if err != nil {
//	    return err
//	}
//	engine := leadIn.Toc.GetEndianEngine()
//
// # Table of Contents
//
//	Bit | Mask | Meaning
//	----|------|------------------------------------
//	1   | 0x02 | segment has metadata
//	2   | 0x04 | object list replaces the previous one
//	3   | 0x08 | segment has raw data
//	5   | 0x20 | raw data is interleaved
//	6   | 0x40 | segment is big-endian
//	7   | 0x80 | segment has DAQmx raw data
//
// A next segment offset of 0xFFFFFFFFFFFFFFFF marks a segment whose writer
// did not finish; readers treat it as extending to the end of the file.
package section
