package format

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
)

type (
	// DataType is the u32 type code stored in raw data indexes and property records.
	DataType        uint32
	CompressionType uint8
)

const (
	TypeVoid                  DataType = 0x00       // TypeVoid carries no value.
	TypeI8                    DataType = 0x01       // TypeI8 is a signed 8-bit integer.
	TypeI16                   DataType = 0x02       // TypeI16 is a signed 16-bit integer.
	TypeI32                   DataType = 0x03       // TypeI32 is a signed 32-bit integer.
	TypeI64                   DataType = 0x04       // TypeI64 is a signed 64-bit integer.
	TypeU8                    DataType = 0x05       // TypeU8 is an unsigned 8-bit integer.
	TypeU16                   DataType = 0x06       // TypeU16 is an unsigned 16-bit integer.
	TypeU32                   DataType = 0x07       // TypeU32 is an unsigned 32-bit integer.
	TypeU64                   DataType = 0x08       // TypeU64 is an unsigned 64-bit integer.
	TypeSingleFloat           DataType = 0x09       // TypeSingleFloat is an IEEE-754 binary32.
	TypeDoubleFloat           DataType = 0x0A       // TypeDoubleFloat is an IEEE-754 binary64.
	TypeExtendedFloat         DataType = 0x0B       // TypeExtendedFloat is an x87 80-bit extended float.
	TypeSingleFloatWithUnit   DataType = 0x19       // TypeSingleFloatWithUnit is a binary32 with a unit property.
	TypeDoubleFloatWithUnit   DataType = 0x1A       // TypeDoubleFloatWithUnit is a binary64 with a unit property.
	TypeExtendedFloatWithUnit DataType = 0x1B       // TypeExtendedFloatWithUnit is an 80-bit float with a unit property.
	TypeString                DataType = 0x20       // TypeString is a UTF-8 string.
	TypeBoolean               DataType = 0x21       // TypeBoolean is a single byte, non-zero is true.
	TypeTimeStamp             DataType = 0x44       // TypeTimeStamp is a 16-byte LabVIEW timestamp.
	TypeFixedPoint            DataType = 0x4F       // TypeFixedPoint is an opaque 10-byte fixed point value.
	TypeComplexSingleFloat    DataType = 0x08000C   // TypeComplexSingleFloat is a pair of binary32.
	TypeComplexDoubleFloat    DataType = 0x10000D   // TypeComplexDoubleFloat is a pair of binary64.
	TypeDAQmxRawData          DataType = 0xFFFFFFFF // TypeDAQmxRawData marks a DAQmx raw data index.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// VariableSize is returned by DataType.Size for types without a fixed width.
const VariableSize = -1

var dataTypeInfo = map[DataType]struct {
	name string
	size int
}{
	TypeVoid:                  {"Void", 0},
	TypeI8:                    {"I8", 1},
	TypeI16:                   {"I16", 2},
	TypeI32:                   {"I32", 4},
	TypeI64:                   {"I64", 8},
	TypeU8:                    {"U8", 1},
	TypeU16:                   {"U16", 2},
	TypeU32:                   {"U32", 4},
	TypeU64:                   {"U64", 8},
	TypeSingleFloat:           {"SingleFloat", 4},
	TypeDoubleFloat:           {"DoubleFloat", 8},
	TypeExtendedFloat:         {"ExtendedFloat", 10},
	TypeSingleFloatWithUnit:   {"SingleFloatWithUnit", 4},
	TypeDoubleFloatWithUnit:   {"DoubleFloatWithUnit", 8},
	TypeExtendedFloatWithUnit: {"ExtendedFloatWithUnit", 10},
	TypeString:                {"String", VariableSize},
	TypeBoolean:               {"Boolean", 1},
	TypeTimeStamp:             {"TimeStamp", 16},
	TypeFixedPoint:            {"FixedPoint", 10},
	TypeComplexSingleFloat:    {"ComplexSingleFloat", 8},
	TypeComplexDoubleFloat:    {"ComplexDoubleFloat", 16},
	TypeDAQmxRawData:          {"DAQmxRawData", VariableSize},
}

// ParseDataType converts a raw type code into a DataType.
//
// Returns:
//   - DataType: The decoded type
//   - error: ErrUnknownDataType if the code is outside the known set
func ParseDataType(code uint32) (DataType, error) {
	t := DataType(code)
	if !t.IsValid() {
		return t, fmt.Errorf("%w: 0x%X", errs.ErrUnknownDataType, code)
	}

	return t, nil
}

// IsValid reports whether t is one of the known type codes.
func (t DataType) IsValid() bool {
	_, ok := dataTypeInfo[t]
	return ok
}

// Size returns the encoded width of one value in bytes, or VariableSize for
// String and DAQmxRawData. Unknown types report 0.
func (t DataType) Size() int {
	return dataTypeInfo[t].size
}

// IsFixedSize reports whether every value of t occupies the same number of bytes.
func (t DataType) IsFixedSize() bool {
	return t.Size() > 0
}

// IsFloat reports whether t is one of the real floating point types, with or without unit.
func (t DataType) IsFloat() bool {
	switch t {
	case TypeSingleFloat, TypeDoubleFloat, TypeExtendedFloat,
		TypeSingleFloatWithUnit, TypeDoubleFloatWithUnit, TypeExtendedFloatWithUnit:
		return true
	default:
		return false
	}
}

// Base maps a "with unit" float type onto its plain counterpart. Other types are returned as is.
func (t DataType) Base() DataType {
	switch t {
	case TypeSingleFloatWithUnit:
		return TypeSingleFloat
	case TypeDoubleFloatWithUnit:
		return TypeDoubleFloat
	case TypeExtendedFloatWithUnit:
		return TypeExtendedFloat
	default:
		return t
	}
}

func (t DataType) String() string {
	if info, ok := dataTypeInfo[t]; ok {
		return info.name
	}

	return fmt.Sprintf("Unknown(0x%X)", uint32(t))
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
