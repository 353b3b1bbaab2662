package policy

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xcpgo/xcpcore/format"
)

// Stdout logs every fed frame as a single human-readable line: category,
// counter, timestamp, and the payload hex-dumped.
type Stdout struct {
	filterSet
	log *logrus.Logger
}

func newStdoutLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableLevelTruncation: true})

	return log
}

// NewStdout creates a Stdout policy writing to os.Stdout, optionally
// filtering out categories.
func NewStdout(filterOut ...format.FrameCategory) *Stdout {
	return &Stdout{filterSet: newFilterSet(filterOut...), log: newStdoutLogger(os.Stdout)}
}

// NewStdoutWriter is NewStdout with an explicit writer, for tests.
func NewStdoutWriter(w io.Writer, filterOut ...format.FrameCategory) *Stdout {
	return &Stdout{filterSet: newFilterSet(filterOut...), log: newStdoutLogger(w)}
}

func (s *Stdout) Feed(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error {
	s.log.Infof("%s ctr=%d ts=%d %x", category, counter, timestamp, payload)

	return nil
}

func (*Stdout) Finalize() error { return nil }
