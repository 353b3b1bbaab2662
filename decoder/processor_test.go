package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/format"
)

func TestProcessorFeedDispatchesByPID(t *testing.T) {
	require := require.New(t)

	list := buildTwoOdtList(t)
	params := daqmodel.MeasurementParameters{
		ByteOrder:     format.ByteOrderIntel,
		IDFieldSize:   2,
		TSSize:        0,
		TSScaleFactor: 1.0,
		DaqLists:      []daqmodel.DaqList{list},
		FirstPIDs:     []uint16{0},
	}
	p := NewProcessor(params)

	result, err := p.Feed(1000, hexBytes(t, "00 00 2A 00 00 00 20 41"))
	require.NoError(err)
	require.Nil(result)

	result, err = p.Feed(1000, hexBytes(t, "01 00 FF"))
	require.NoError(err)
	require.NotNil(result)
	require.Equal(uint16(0), result.DaqNum)
	require.Len(result.Values, 3)
}

func TestProcessorFeedRejectsUnknownDaqNumber(t *testing.T) {
	require := require.New(t)

	list := buildTwoOdtList(t)
	params := daqmodel.MeasurementParameters{
		ByteOrder:   format.ByteOrderIntel,
		IDFieldSize: 2,
		DaqLists:    []daqmodel.DaqList{list},
		FirstPIDs:   []uint16{0},
	}
	p := NewProcessor(params)

	_, err := p.Feed(0, hexBytes(t, "00 09 2A 00 00 00 20 41"))
	require.Error(err)
}
