package decoder

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xcpgo/xcpcore/codec"
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/format"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)

	return b
}

// buildTwoOdtList constructs a one-list session: ODT 0 = [U16, F32], ODT 1
// = [U8], timestamps disabled — matching the worked scenario (2-byte PID,
// no timestamps).
func buildTwoOdtList(t *testing.T) daqmodel.DaqList {
	t.Helper()

	u16, err := daqmodel.NewMcObject("v1", 0, 0, 0, "U16")
	require.NoError(t, err)
	f32, err := daqmodel.NewMcObject("v2", 0, 0, 0, "F32")
	require.NoError(t, err)
	u8, err := daqmodel.NewMcObject("v3", 0, 0, 0, "U8")
	require.NoError(t, err)

	bin0 := daqmodel.NewBin(8)
	bin0.Append(u16)
	bin0.Append(f32)

	bin1 := daqmodel.NewBin(8)
	bin1.Append(u8)

	list := daqmodel.NewDaqList("engine", 1, false, false, []daqmodel.McObject{u16, f32, u8}, 0, 1)
	list.SetMeasurementsOpt([]daqmodel.Bin{bin0, bin1})

	return list
}

// TestListStateScenarioTwoOdtTwoBytePID reproduces spec's worked example:
// a 2-ODT list decoded via a 2-byte PID with timestamps disabled.
func TestListStateScenarioTwoOdtTwoBytePID(t *testing.T) {
	require := require.New(t)

	list := buildTwoOdtList(t)
	c := codec.New(format.ByteOrderIntel)
	ls := NewListState(0, list, c, 2, 0, 1.0)

	frame0 := hexBytes(t, "00 00 2A 00 00 00 20 41")
	result, state, err := ls.Feed(0, 1000, frame0)
	require.NoError(err)
	require.Equal(Collecting, state)
	require.Nil(result)

	frame1 := hexBytes(t, "01 00 FF")
	result, state, err = ls.Feed(1, 1000, frame1)
	require.NoError(err)
	require.Equal(Finished, state)
	require.NotNil(result)

	require.Equal(uint16(0), result.DaqNum)
	require.Equal(uint64(1000), result.Timestamp0)
	require.Equal(float64(0), result.Timestamp1)
	require.Len(result.Values, 3)
	require.Equal(uint64(42), result.Values[0].Uint())
	require.InDelta(10.0, result.Values[1].Float(), 1e-9)
	require.Equal(uint64(255), result.Values[2].Uint())
}

// TestListStateSingleOdtFinishesImmediately covers the (Idle, odt==0) "only
// one ODT" shortcut.
func TestListStateSingleOdtFinishesImmediately(t *testing.T) {
	require := require.New(t)

	u8, err := daqmodel.NewMcObject("v", 0, 0, 0, "U8")
	require.NoError(err)
	bin := daqmodel.NewBin(8)
	bin.Append(u8)

	list := daqmodel.NewDaqList("l", 1, false, false, []daqmodel.McObject{u8}, 0, 1)
	list.SetMeasurementsOpt([]daqmodel.Bin{bin})

	c := codec.New(format.ByteOrderIntel)
	ls := NewListState(0, list, c, 2, 0, 1.0)

	result, state, err := ls.Feed(0, 1, hexBytes(t, "00 00 7B"))
	require.NoError(err)
	require.Equal(Finished, state)
	require.Equal(uint64(0x7B), result.Values[0].Uint())
}

// TestListStateOutOfOrderOdtErrorsAndResets verifies spec's ODT-sequencing
// invariant: a duplicated/reordered/missing ODT yields Error and resets,
// and the list resynchronizes cleanly on the next ODT 0.
func TestListStateOutOfOrderOdtErrorsAndResets(t *testing.T) {
	require := require.New(t)

	list := buildTwoOdtList(t)
	c := codec.New(format.ByteOrderIntel)
	ls := NewListState(0, list, c, 2, 0, 1.0)

	_, state, err := ls.Feed(0, 1, hexBytes(t, "00 00 2A 00 00 00 20 41"))
	require.NoError(err)
	require.Equal(Collecting, state)

	// Feed ODT 0 again while ODT 1 is the expected next ODT.
	_, state, err = ls.Feed(0, 2, hexBytes(t, "00 00 01 00 00 00 00 00"))
	require.NoError(err)
	require.Equal(Error, state)

	// The list must have reset to Idle and accept a fresh cycle.
	_, state, err = ls.Feed(0, 3, hexBytes(t, "00 00 2A 00 00 00 20 41"))
	require.NoError(err)
	require.Equal(Collecting, state)
}

func TestListStateIgnoresUnexpectedOdtWhileIdle(t *testing.T) {
	require := require.New(t)

	list := buildTwoOdtList(t)
	c := codec.New(format.ByteOrderIntel)
	ls := NewListState(0, list, c, 2, 0, 1.0)

	result, state, err := ls.Feed(1, 1, hexBytes(t, "01 00 FF"))
	require.NoError(err)
	require.Equal(Ignore, state)
	require.Nil(result)
}
