package metadata

import (
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/section"
)

const (
	minObjectSize   = 12 // path prefix + index lead + property count
	minPropertySize = 8  // name prefix + type code
)

// Property is a named, typed value attached to an object.
type Property struct {
	Name  string
	Value encoding.Value
}

// Object is one entry of a segment's metadata object list.
type Object struct {
	// Path is the quoted object path, "/", "/'group'" or "/'group'/'channel'".
	Path string
	// Index is the raw data index as written, before inheritance is resolved.
	Index RawDataIndex
	// Properties set or overwritten by this segment, in file order.
	Properties []Property
}

// Parse decodes the metadata block of a segment.
//
// Parameters:
//   - data: The metadata block, exactly raw data offset bytes
//   - toc: Table of contents of the segment; it selects the byte order and
//     whether DAQmx indexes are recognised
//
// Returns:
//   - []Object: Objects in the order they are listed
//   - error: ErrMalformedMetadata wrapping the decode failure
func Parse(data []byte, toc section.TocFlag) ([]Object, error) {
	c := &cursor{b: data, engine: toc.GetEndianEngine()}

	count, err := c.count("object count", minObjectSize)
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, count)
	for i := range count {
		obj, err := parseObject(c, toc.HasDAQmxRawData())
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objects = append(objects, obj)
	}

	return objects, nil
}

func parseObject(c *cursor, daqmx bool) (Object, error) {
	var (
		obj Object
		err error
	)

	if obj.Path, err = c.str("object path"); err != nil {
		return Object{}, err
	}

	if obj.Index, err = parseIndex(c, daqmx); err != nil {
		return Object{}, fmt.Errorf("%s: %w", obj.Path, err)
	}

	count, err := c.count("property count", minPropertySize)
	if err != nil {
		return Object{}, fmt.Errorf("%s: %w", obj.Path, err)
	}

	if count > 0 {
		obj.Properties = make([]Property, 0, count)
	}

	for range count {
		p, err := parseProperty(c)
		if err != nil {
			return Object{}, fmt.Errorf("%s: %w", obj.Path, err)
		}
		obj.Properties = append(obj.Properties, p)
	}

	return obj, nil
}

func parseProperty(c *cursor) (Property, error) {
	name, err := c.str("property name")
	if err != nil {
		return Property{}, err
	}

	t, err := c.dataType("property type")
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", name, err)
	}

	if t == format.TypeDAQmxRawData {
		return Property{}, fmt.Errorf("%w: property %q has DAQmx raw data type", errs.ErrMalformedMetadata, name)
	}

	v, err := c.value(t, "property value")
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", name, err)
	}

	return Property{Name: name, Value: v}, nil
}

// AppendTo appends the encoded object to dst.
func (o Object) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	dst = encoding.AppendString(dst, o.Path)
	dst = o.Index.AppendTo(dst, engine)
	dst = engine.AppendUint32(dst, uint32(len(o.Properties))) //nolint:gosec

	var err error
	for _, p := range o.Properties {
		dst = encoding.AppendString(dst, p.Name)
		dst = engine.AppendUint32(dst, uint32(p.Value.Type))
		if dst, err = encoding.AppendValue(dst, p.Value, engine); err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.Name, o.Path, err)
		}
	}

	return dst, nil
}

// Encode encodes an object list as a metadata block.
func Encode(objects []Object, engine endian.EndianEngine) ([]byte, error) {
	dst := engine.AppendUint32(nil, uint32(len(objects))) //nolint:gosec

	var err error
	for _, o := range objects {
		if dst, err = o.AppendTo(dst, engine); err != nil {
			return nil, err
		}
	}

	return dst, nil
}
