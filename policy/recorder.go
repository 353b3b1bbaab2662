package policy

import "github.com/xcpgo/xcpcore/format"

// FrameSink is the subset of *recorder.Writer the Recorder policy needs:
// accepting one frame for eventual compression and append to the log.
// Declared here, rather than importing package recorder directly, so
// policy stays decoupled from the on-disk log format.
type FrameSink interface {
	AddFrame(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error
	Finalize() error
}

// Recorder forwards every non-filtered frame to a FrameSink (in practice,
// a *recorder.Writer), persisting it to the log file.
type Recorder struct {
	filterSet
	sink FrameSink
}

// NewRecorder creates a Recorder policy writing through sink.
func NewRecorder(sink FrameSink, filterOut ...format.FrameCategory) *Recorder {
	return &Recorder{filterSet: newFilterSet(filterOut...), sink: sink}
}

func (r *Recorder) Feed(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error {
	return r.sink.AddFrame(category, counter, timestamp, payload)
}

// Finalize finalizes the underlying sink, flushing and closing the log.
func (r *Recorder) Finalize() error {
	return r.sink.Finalize()
}
