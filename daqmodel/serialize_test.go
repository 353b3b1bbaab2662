package daqmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xcpgo/xcpcore/format"
)

func sampleParameters(t *testing.T) MeasurementParameters {
	t.Helper()

	m1, err := NewMcObject("rpm", 0x1000, 0, 0, "U16")
	require.NoError(t, err)
	m2, err := NewMcObject("temp", 0x1004, 0, 0, "F32")
	require.NoError(t, err)

	daq := NewDaqList("engine", 1, false, true, []McObject{m1, m2}, 0, 1)
	bins := PackBins(daq.Measurements, 8)
	daq.SetMeasurementsOpt(bins)

	return MeasurementParameters{
		ByteOrder:            format.ByteOrderIntel,
		IDFieldSize:          2,
		TimestampsSupported:  true,
		TSFixed:              false,
		PrescalerSupported:   true,
		SelectableTimestamps: true,
		TSScaleFactor:        1e-6,
		TSSize:               4,
		MinDAQ:               0,
		TimestampInfo: TimestampInfo{
			NS: 1234567890, TZ: "UTC", UTCOffset: 0, DSTOffset: 0,
		},
		DaqLists:  []DaqList{daq},
		FirstPIDs: []uint16{0},
	}
}

func TestMeasurementParametersRoundTrip(t *testing.T) {
	require := require.New(t)

	p := sampleParameters(t)
	encoded := EncodeMeasurementParameters(p)

	decoded, err := DecodeMeasurementParameters(encoded)
	require.NoError(err)
	require.True(p.Equal(decoded), "round-tripped parameters must be structurally equal")
}

func TestMeasurementParametersRoundTripTruncated(t *testing.T) {
	require := require.New(t)

	p := sampleParameters(t)
	encoded := EncodeMeasurementParameters(p)

	_, err := DecodeMeasurementParameters(encoded[:len(encoded)-1])
	require.Error(err)
}

func TestMcObjectHashStableAcrossEncodes(t *testing.T) {
	require := require.New(t)

	a, err := NewMcObject("x", 1, 0, 0, "U32")
	require.NoError(err)
	b, err := NewMcObject("x", 1, 0, 0, "U32")
	require.NoError(err)

	require.Equal(a.ComponentsHash(), b.ComponentsHash())

	c, err := NewMcObject("y", 1, 0, 0, "U32")
	require.NoError(err)
	require.NotEqual(a.ComponentsHash(), c.ComponentsHash())
}

func TestMcObjectInvalidDataType(t *testing.T) {
	require := require.New(t)

	_, err := NewMcObject("bad", 0, 0, 0, "NOTATYPE")
	require.Error(err)
}

func TestPackBinsRespectsCapacity(t *testing.T) {
	require := require.New(t)

	objs := []McObject{}
	for i := 0; i < 5; i++ {
		obj, err := NewMcObject("m", uint32(i), 0, 0, "U32")
		require.NoError(err)
		objs = append(objs, obj)
	}

	bins := PackBins(objs, 8) // 2 entries of 4 bytes fit per bin
	require.Len(bins, 3)

	var total int
	for _, b := range bins {
		total += len(b.Entries)
		require.LessOrEqual(int(b.Size)-int(b.ResidualCapacity), int(b.Size))
	}
	require.Equal(5, total)
}
