package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveTypeRoundTripsThroughName(t *testing.T) {
	require := require.New(t)

	for _, tag := range []PrimitiveType{TypeU8, TypeI8, TypeU16, TypeI16, TypeU32, TypeI32, TypeU64, TypeI64, TypeF32, TypeF64, TypeF16, TypeBF16} {
		parsed, ok := ParseTypeName(tag.String())
		require.True(ok)
		require.Equal(tag, parsed)
	}
}

func TestPrimitiveTypeSize(t *testing.T) {
	require := require.New(t)

	size, err := TypeU64.Size()
	require.NoError(err)
	require.Equal(8, size)

	size, err = TypeBF16.Size()
	require.NoError(err)
	require.Equal(2, size)
}

func TestPrimitiveTypeSizeUnknownTag(t *testing.T) {
	require := require.New(t)

	_, err := PrimitiveType(200).Size()
	require.Error(err)
}

func TestParseTypeNameUnknown(t *testing.T) {
	require := require.New(t)

	_, ok := ParseTypeName("NOT_A_TYPE")
	require.False(ok)
}

func TestByteOrderString(t *testing.T) {
	require := require.New(t)

	require.Equal("Intel", ByteOrderIntel.String())
	require.Equal("Motorola", ByteOrderMotorola.String())
}

func TestFrameCategoryString(t *testing.T) {
	require := require.New(t)

	require.Equal("DAQ", CategoryDaq.String())
	require.Equal("Unknown", FrameCategory(99).String())
}
