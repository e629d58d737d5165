package format

import (
	"testing"

	"github.com/arloliu/tdms/errs"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		typ  DataType
		size int
	}{
		{TypeVoid, 0},
		{TypeI8, 1},
		{TypeI16, 2},
		{TypeI32, 4},
		{TypeI64, 8},
		{TypeU8, 1},
		{TypeU16, 2},
		{TypeU32, 4},
		{TypeU64, 8},
		{TypeSingleFloat, 4},
		{TypeDoubleFloat, 8},
		{TypeExtendedFloat, 10},
		{TypeSingleFloatWithUnit, 4},
		{TypeDoubleFloatWithUnit, 8},
		{TypeExtendedFloatWithUnit, 10},
		{TypeString, VariableSize},
		{TypeBoolean, 1},
		{TypeTimeStamp, 16},
		{TypeFixedPoint, 10},
		{TypeComplexSingleFloat, 8},
		{TypeComplexDoubleFloat, 16},
		{TypeDAQmxRawData, VariableSize},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			require.True(t, tt.typ.IsValid())
			require.Equal(t, tt.size, tt.typ.Size())
			require.Equal(t, tt.size > 0, tt.typ.IsFixedSize())
		})
	}
}

func TestParseDataType(t *testing.T) {
	typ, err := ParseDataType(0x10000D)
	require.NoError(t, err)
	require.Equal(t, TypeComplexDoubleFloat, typ)

	_, err = ParseDataType(0x42)
	require.ErrorIs(t, err, errs.ErrUnknownDataType)
	require.Equal(t, "Unknown(0x42)", DataType(0x42).String())
}

func TestDataTypeBase(t *testing.T) {
	require.Equal(t, TypeSingleFloat, TypeSingleFloatWithUnit.Base())
	require.Equal(t, TypeDoubleFloat, TypeDoubleFloatWithUnit.Base())
	require.Equal(t, TypeExtendedFloat, TypeExtendedFloatWithUnit.Base())
	require.Equal(t, TypeI32, TypeI32.Base())
	require.True(t, TypeDoubleFloatWithUnit.IsFloat())
	require.False(t, TypeU64.IsFloat())
}

func TestCompressionTypeString(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Unknown", CompressionType(9).String())
}
