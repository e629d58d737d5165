// Package errs defines the sentinel errors returned by the tdms packages.
//
// Callers match them with errors.Is; the packages wrap them with fmt.Errorf("%w: ...")
// to add the segment, offset or object path the error refers to.
package errs

import "errors"

// File level errors.
var (
	// ErrInvalidFile is returned when the first segment cannot be parsed; no index is produced.
	ErrInvalidFile = errors.New("invalid tdms file")
	// ErrPartialFile is recorded as a warning when a later segment is corrupt.
	// The index covers all segments before the corrupt one.
	ErrPartialFile = errors.New("partial tdms file")
	// ErrTruncatedFinalSegment is recorded as a warning when the last segment is
	// shorter than its lead-in claims.
	ErrTruncatedFinalSegment = errors.New("truncated final segment")
	// ErrIncompleteChunk is recorded as a warning when a segment's raw data ends
	// inside a chunk. The complete values of that chunk are still indexed.
	ErrIncompleteChunk = errors.New("incomplete raw data chunk")
	// ErrInvalidSegmentTag is returned when a lead-in does not start with "TDSm".
	ErrInvalidSegmentTag = errors.New("invalid segment tag")
	// ErrInvalidLeadInSize is returned when fewer than 28 bytes are given to the lead-in parser.
	ErrInvalidLeadInSize = errors.New("invalid lead-in size")
	// ErrInvalidSegmentOffset is returned when the raw data offset lies past the next segment offset.
	ErrInvalidSegmentOffset = errors.New("invalid segment offset")
)

// Metadata errors.
var (
	// ErrMalformedMetadata is returned for any structural violation inside a metadata block.
	ErrMalformedMetadata = errors.New("malformed metadata")
	// ErrUnknownDataType is returned for a data type code outside the known set.
	ErrUnknownDataType = errors.New("unknown data type")
	// ErrMetadataTooLarge is returned when a metadata block exceeds the configured limit.
	ErrMetadataTooLarge = errors.New("metadata block too large")
	// ErrInvalidPath is returned when an object path does not follow the quoted path syntax.
	ErrInvalidPath = errors.New("invalid object path")
)

// Primitive and raw data errors.
var (
	// ErrTruncatedData is returned when fewer bytes are available than a value needs.
	ErrTruncatedData = errors.New("truncated data")
	// ErrMalformedString is returned for string bytes that are not valid UTF-8.
	ErrMalformedString = errors.New("malformed string")
	// ErrTypeMismatch is returned when an accessor does not match the channel's data type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnsupportedLayout is returned for raw data layouts the engine cannot decode,
	// such as variable width values in an interleaved segment.
	ErrUnsupportedLayout = errors.New("unsupported raw data layout")
)

// Lookup and source errors.
var (
	// ErrChannelNotFound is returned when a channel path is not in the index.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrGroupNotFound is returned when a group name is not in the index.
	ErrGroupNotFound = errors.New("group not found")
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	// ErrInvalidOption is returned by an option given an out of range value.
	ErrInvalidOption = errors.New("invalid option")
)
