package recorder

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

var allCategories = []format.FrameCategory{
	format.CategoryMeta, format.CategoryCmd, format.CategoryRes, format.CategoryErr,
	format.CategoryEv, format.CategoryServ, format.CategoryDaq, format.CategoryStim,
}

func sampleMeasurementParameters(t *testing.T) daqmodel.MeasurementParameters {
	t.Helper()

	m1, err := daqmodel.NewMcObject("rpm", 0x1000, 0, 0, "U16")
	require.NoError(t, err)

	daq := daqmodel.NewDaqList("engine", 1, false, false, []daqmodel.McObject{m1}, 0, 1)
	bins := daqmodel.PackBins(daq.Measurements, 8)
	daq.SetMeasurementsOpt(bins)

	return daqmodel.MeasurementParameters{
		ByteOrder:   format.ByteOrderIntel,
		IDFieldSize: 2,
		TSSize:      0,
		DaqLists:    []daqmodel.DaqList{daq},
		FirstPIDs:   []uint16{0},
	}
}

func TestWriterReaderRoundTripSmall(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "small.xcpraw")
	params := sampleMeasurementParameters(t)

	w, err := NewWriter(path, 1, 4096, &params)
	require.NoError(err)

	require.NoError(w.AddFrame(format.CategoryDaq, 0, 1000, []byte{1, 2, 3}))
	require.NoError(w.AddFrame(format.CategoryCmd, 1, 2000, []byte{0xAA}))
	require.NoError(w.Finalize())

	r, err := NewReader(path)
	require.NoError(err)
	defer r.Close()

	require.NotNil(r.Metadata())
	require.True(params.Equal(*r.Metadata()))

	var frames []daqmodel.Frame
	for {
		block, ok, err := r.NextBlock()
		require.NoError(err)
		if !ok {
			break
		}
		frames = append(frames, block...)
	}

	require.Len(frames, 2)
	require.Equal(format.CategoryDaq, frames[0].Category)
	require.Equal([]byte{1, 2, 3}, frames[0].Payload)
	require.Equal(format.CategoryCmd, frames[1].Category)
	require.Equal([]byte{0xAA}, frames[1].Payload)

	require.Equal(uint64(2), r.RecordCount())
}

// TestWriterReaderScenarioThousandFrames writes 1,000 frames with sizes
// uniform in [1,512], categories cycling through all eight, counters
// 0..999, and verifies the log reads back identically.
func TestWriterReaderScenarioThousandFrames(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "thousand.xcpraw")
	const chunkBytes = 16 * 1024

	w, err := NewWriter(path, 8, chunkBytes, nil)
	require.NoError(err)

	rng := rand.New(rand.NewSource(1))

	type want struct {
		category format.FrameCategory
		counter  uint16
		payload  []byte
	}
	expected := make([]want, 0, 1000)
	var totalBytes int

	for i := 0; i < 1000; i++ {
		cat := allCategories[i%len(allCategories)]
		size := 1 + rng.Intn(512)
		payload := make([]byte, size)
		for j := range payload {
			payload[j] = byte((i + j) % 256)
		}

		require.NoError(w.AddFrame(cat, uint16(i), uint64(i)*1000, payload))
		expected = append(expected, want{cat, uint16(i), payload})
		totalBytes += frameHeaderSize + size
	}

	require.NoError(w.Finalize())

	r, err := NewReader(path)
	require.NoError(err)
	defer r.Close()

	require.Nil(r.Metadata())
	require.Equal(uint64(1000), r.RecordCount())

	wantContainers := (totalBytes + chunkBytes - 1) / chunkBytes
	require.Equal(uint64(wantContainers), r.NumContainers())

	var got []daqmodel.Frame
	for {
		block, ok, err := r.NextBlock()
		require.NoError(err)
		if !ok {
			break
		}
		got = append(got, block...)
	}

	require.Len(got, 1000)
	for i, f := range got {
		require.Equal(expected[i].category, f.Category, "frame %d category", i)
		require.Equal(expected[i].counter, f.Counter, "frame %d counter", i)
		require.Equal(expected[i].payload, f.Payload, "frame %d payload", i)
	}
}

func TestWriterFinalizeIsIdempotent(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "idempotent.xcpraw")
	w, err := NewWriter(path, 1, 4096, nil)
	require.NoError(err)

	require.NoError(w.AddFrame(format.CategoryDaq, 0, 0, []byte{1}))
	require.NoError(w.Finalize())
	require.NoError(w.Finalize())
}

func TestWriterAddFrameAfterFinalizeErrors(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "postfinal.xcpraw")
	w, err := NewWriter(path, 1, 4096, nil)
	require.NoError(err)

	require.NoError(w.Finalize())
	require.Error(w.AddFrame(format.CategoryDaq, 0, 0, []byte{1}))
}

// TestWriterPoisonedAfterCollectorError verifies that a fatal error observed
// on the collector goroutine poisons the writer: AddFrame becomes a no-op
// returning ErrWriterFinalized, and Finalize surfaces the original error.
func TestWriterPoisonedAfterCollectorError(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "poisoned.xcpraw")
	w, err := NewWriter(path, 1, 4096, nil)
	require.NoError(err)

	w.poison(errs.ErrCompressionFailed, "test: forced poison")

	err = w.AddFrame(format.CategoryDaq, 0, 0, []byte{1})
	require.ErrorIs(err, errs.ErrWriterFinalized)

	err = w.Finalize()
	require.ErrorIs(err, errs.ErrCompressionFailed)
}

func TestReaderRejectsBadMagic(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bad.xcpraw")
	w, err := NewWriter(path, 1, 4096, nil)
	require.NoError(err)
	require.NoError(w.Finalize())

	corrupt := filepath.Join(t.TempDir(), "corrupt.xcpraw")
	data, err := os.ReadFile(path)
	require.NoError(err)
	data[0] = 'X'
	require.NoError(os.WriteFile(corrupt, data, 0o644))

	_, err = NewReader(corrupt)
	require.Error(err)
}
