package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/tdms/errs"
)

// StringPrefixSize is the size of the length prefix of an encoded string.
const StringPrefixSize = 4

// ReadString reads a length-prefixed UTF-8 string at off.
//
// The u32 length prefix is little-endian in every segment.
//
// Returns:
//   - string: The decoded string (a copy, it does not alias b)
//   - int: Bytes consumed, prefix included
//   - error: ErrTruncatedData if the prefix or payload is cut short, ErrMalformedString for invalid UTF-8
func ReadString(b []byte, off int) (string, int, error) {
	if err := need(b, off, StringPrefixSize); err != nil {
		return "", 0, err
	}

	length := binary.LittleEndian.Uint32(b[off:])
	start := off + StringPrefixSize
	if uint64(length) > uint64(len(b)-start) {
		return "", 0, fmt.Errorf("%w: string of %d bytes at offset %d, have %d",
			errs.ErrTruncatedData, length, off, len(b)-start)
	}

	s, err := DecodeString(b[start : start+int(length)])
	if err != nil {
		return "", 0, err
	}

	return s, StringPrefixSize + int(length), nil
}

// DecodeString validates b as UTF-8 and returns it as a string.
func DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid UTF-8 in %d bytes", errs.ErrMalformedString, len(b))
	}

	return string(b), nil
}

// AppendString appends s with its little-endian length prefix.
func AppendString(dst []byte, s string) []byte {
	if uint64(len(s)) > math.MaxUint32 {
		panic("AppendString: string longer than 4 GiB")
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s))) //nolint:gosec
	return append(dst, s...)
}
