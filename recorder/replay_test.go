package recorder

import (
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/decoder"
	"github.com/xcpgo/xcpcore/format"
)

func hex2(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)

	return b
}

// buildReplayParameters mirrors decoder's worked two-ODT scenario (2-byte
// PID, timestamps disabled): ODT 0 = [U16, F32], ODT 1 = [U8].
func buildReplayParameters(t *testing.T) daqmodel.MeasurementParameters {
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

	return daqmodel.MeasurementParameters{
		ByteOrder:   format.ByteOrderIntel,
		IDFieldSize: 2,
		TSSize:      0,
		DaqLists:    []daqmodel.DaqList{list},
		FirstPIDs:   []uint16{0},
	}
}

func TestReplayReproducesOnlineDecoderSequence(t *testing.T) {
	require := require.New(t)

	params := buildReplayParameters(t)
	path := filepath.Join(t.TempDir(), "replay.xcpraw")

	w, err := NewWriter(path, 1, 4096, &params)
	require.NoError(err)

	require.NoError(w.AddFrame(format.CategoryDaq, 0, 1000, hex2(t, "00 00 2A 00 00 00 20 41")))
	require.NoError(w.AddFrame(format.CategoryCmd, 1, 1500, []byte{0x01}))
	require.NoError(w.AddFrame(format.CategoryDaq, 2, 2000, hex2(t, "01 00 FF")))
	require.NoError(w.Finalize())

	r, err := NewReader(path)
	require.NoError(err)
	defer r.Close()

	replay, err := NewReplay(r)
	require.NoError(err)

	var results []*decoder.Result
	require.NoError(replay.Run(func(res *decoder.Result) {
		results = append(results, res)
	}))

	require.Len(results, 1)
	require.Equal(uint16(0), results[0].DaqNum)
	require.Equal(uint64(1000), results[0].Timestamp0)
	require.Len(results[0].Values, 3)
	require.Equal(uint64(42), results[0].Values[0].Uint())
	require.InDelta(10.0, results[0].Values[1].Float(), 1e-9)
	require.Equal(uint64(255), results[0].Values[2].Uint())
}

func TestReplayRequiresMetadata(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "nometa.xcpraw")
	w, err := NewWriter(path, 1, 4096, nil)
	require.NoError(err)
	require.NoError(w.AddFrame(format.CategoryDaq, 0, 0, []byte{0, 0}))
	require.NoError(w.Finalize())

	r, err := NewReader(path)
	require.NoError(err)
	defer r.Close()

	_, err = NewReplay(r)
	require.Error(err)
}
