package metadata

import (
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// cursor walks a metadata block. Every failure is reported as
// ErrMalformedMetadata, wrapping the underlying decode error.
type cursor struct {
	b      []byte
	off    int
	engine endian.EndianEngine
}

func (c *cursor) fail(what string, err error) error {
	return fmt.Errorf("%w: %s at offset %d: %w", errs.ErrMalformedMetadata, what, c.off, err)
}

func (c *cursor) remaining() int {
	return len(c.b) - c.off
}

func (c *cursor) u8(what string) (uint8, error) {
	v, n, err := encoding.ReadUint8(c.b, c.off)
	if err != nil {
		return 0, c.fail(what, err)
	}
	c.off += n

	return v, nil
}

func (c *cursor) u32(what string) (uint32, error) {
	v, n, err := encoding.ReadUint32(c.b, c.off, c.engine)
	if err != nil {
		return 0, c.fail(what, err)
	}
	c.off += n

	return v, nil
}

func (c *cursor) u64(what string) (uint64, error) {
	v, n, err := encoding.ReadUint64(c.b, c.off, c.engine)
	if err != nil {
		return 0, c.fail(what, err)
	}
	c.off += n

	return v, nil
}

func (c *cursor) str(what string) (string, error) {
	v, n, err := encoding.ReadString(c.b, c.off)
	if err != nil {
		return "", c.fail(what, err)
	}
	c.off += n

	return v, nil
}

func (c *cursor) dataType(what string) (format.DataType, error) {
	code, err := c.u32(what)
	if err != nil {
		return 0, err
	}

	t, err := format.ParseDataType(code)
	if err != nil {
		return 0, c.fail(what, err)
	}

	return t, nil
}

func (c *cursor) value(t format.DataType, what string) (encoding.Value, error) {
	v, n, err := encoding.DecodeValue(t, c.b, c.off, c.engine)
	if err != nil {
		return encoding.Value{}, c.fail(what, err)
	}
	c.off += n

	return v, nil
}

// count reads a u32 element count and rejects counts that could not fit in
// the rest of the block given the minimum element size.
func (c *cursor) count(what string, minSize int) (int, error) {
	n, err := c.u32(what)
	if err != nil {
		return 0, err
	}

	if minSize > 0 && uint64(n)*uint64(minSize) > uint64(c.remaining()) {
		return 0, fmt.Errorf("%w: %s %d exceeds metadata block (%d bytes left)",
			errs.ErrMalformedMetadata, what, n, c.remaining())
	}

	return int(n), nil
}
