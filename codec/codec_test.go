package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xcpgo/xcpcore/format"
)

func TestReadWriteTypedRoundTrip(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		name string
		typ  format.PrimitiveType
		val  Value
	}{
		{"u8", format.TypeU8, NewUintValue(format.TypeU8, 0xAB)},
		{"i8", format.TypeI8, NewIntValue(format.TypeI8, -5)},
		{"u16", format.TypeU16, NewUintValue(format.TypeU16, 42)},
		{"i16", format.TypeI16, NewIntValue(format.TypeI16, -1234)},
		{"u32", format.TypeU32, NewUintValue(format.TypeU32, 1<<20)},
		{"i32", format.TypeI32, NewIntValue(format.TypeI32, -100000)},
		{"u64", format.TypeU64, NewUintValue(format.TypeU64, 1<<40)},
		{"i64", format.TypeI64, NewIntValue(format.TypeI64, -(1 << 40))},
		{"f32", format.TypeF32, NewFloatValue(format.TypeF32, 10.0)},
		{"f64", format.TypeF64, NewFloatValue(format.TypeF64, 3.14159)},
	}

	for _, bo := range []format.ByteOrder{format.ByteOrderIntel, format.ByteOrderMotorola} {
		c := New(bo)
		for _, tc := range cases {
			buf := make([]byte, 8)
			require.NoError(c.WriteTyped(tc.typ, buf, 0, tc.val))
			got, err := c.ReadTyped(tc.typ, buf, 0)
			require.NoError(err)
			require.Equal(tc.val, got, "type %s byte order %s", tc.name, bo)
		}
	}
}

func TestReadPID(t *testing.T) {
	require := require.New(t)
	c := New(format.ByteOrderIntel)

	// id_field_size == 2: byte0=odt, byte1=daq.
	daq, odt, err := c.ReadPID([]byte{0x01, 0x02}, 2)
	require.NoError(err)
	require.Equal(uint16(2), daq)
	require.Equal(uint16(1), odt)

	// id_field_size == 3: byte0=odt, bytes1-2=daq as u16 LE.
	daq, odt, err = c.ReadPID([]byte{0x05, 0x10, 0x00}, 3)
	require.NoError(err)
	require.Equal(uint16(0x10), daq)
	require.Equal(uint16(5), odt)

	// id_field_size == 4: byte0=odt, byte1=fill, bytes2-3=daq as u16.
	daq, odt, err = c.ReadPID([]byte{0x07, 0xFF, 0x03, 0x00}, 4)
	require.NoError(err)
	require.Equal(uint16(3), daq)
	require.Equal(uint16(7), odt)

	// id_field_size outside {1,2,3,4} is rejected.
	_, _, err = c.ReadPID([]byte{0x00, 0x00, 0x00, 0x00, 0x00}, 5)
	require.Error(err)
}

func TestReadPIDAbsolute(t *testing.T) {
	require := require.New(t)
	c := New(format.ByteOrderIntel)
	c.SetFirstPIDs([]uint16{0, 2}, []uint16{2, 1})

	daq, odt, err := c.ReadPID([]byte{0x02}, 1)
	require.NoError(err)
	require.Equal(uint16(1), daq)
	require.Equal(uint16(0), odt)

	_, _, err = c.ReadPID([]byte{0x09}, 1)
	require.Error(err)
}

func TestReadTimestamp(t *testing.T) {
	require := require.New(t)
	c := New(format.ByteOrderIntel)

	ts, err := c.ReadTimestamp([]byte{0x00, 0x01, 0x00}, 1, 0)
	require.NoError(err)
	require.Equal(uint32(0), ts)

	ts, err = c.ReadTimestamp([]byte{0x00, 0x2A}, 1, 1)
	require.NoError(err)
	require.Equal(uint32(0x2A), ts)

	ts, err = c.ReadTimestamp([]byte{0x00, 0x01, 0x02}, 1, 2)
	require.NoError(err)
	require.Equal(uint32(0x0201), ts)

	_, err = c.ReadTimestamp(make([]byte, 8), 1, 3)
	require.Error(err)
}

func TestFloat16RoundTrip(t *testing.T) {
	require := require.New(t)

	for _, f := range []float32{0, 1, -1, 10.5, -3.25, 65504} {
		bits := Float32ToFloat16bits(f)
		got := Float16bitsToFloat32(bits)
		require.InDelta(float64(f), float64(got), 0.01)
	}
}

func TestBFloat16RoundTrip(t *testing.T) {
	require := require.New(t)

	for _, f := range []float32{0, 1, -1, 100.0} {
		bits := Float32ToBFloat16bits(f)
		got := BFloat16bitsToFloat32(bits)
		require.InDelta(float64(f), float64(got), 1.0)
	}
}
