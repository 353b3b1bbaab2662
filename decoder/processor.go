package decoder

import (
	"fmt"

	"github.com/xcpgo/xcpcore/codec"
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/errs"
)

// Processor owns one ListState per configured DAQ list and a shared codec,
// and dispatches incoming DAQ frames to the correct list by decoding their
// leading PID bytes.
//
// Not safe for concurrent Feed calls; spec §5 describes the processor as
// single-threaded per instance.
type Processor struct {
	codec       *codec.Codec
	idFieldSize int
	lists       []*ListState
}

// NewProcessor builds a Processor for the given session parameters. One
// ListState is created per entry in params.DaqLists, indexed by position.
func NewProcessor(params daqmodel.MeasurementParameters) *Processor {
	c := codec.New(params.ByteOrder)
	if params.IDFieldSize == 1 {
		odtCounts := make([]uint16, len(params.DaqLists))
		for i, d := range params.DaqLists {
			odtCounts[i] = d.OdtCount
		}
		c.SetFirstPIDs(params.FirstPIDs, odtCounts)
	}

	p := &Processor{codec: c, idFieldSize: params.IDFieldSize}
	for i, d := range params.DaqLists {
		p.lists = append(p.lists, NewListState(uint16(i), d, c, params.IDFieldSize, params.TSSize, params.TSScaleFactor))
	}

	return p
}

// Feed decodes payload's PID, forwards the ODT to the matching list's
// state machine, and returns the unfolded Result if that transition
// completed the list's cycle.
func (p *Processor) Feed(timestamp uint64, payload []byte) (*Result, error) {
	daqNum, odtNum, err := p.codec.ReadPID(payload, p.idFieldSize)
	if err != nil {
		return nil, err
	}

	if int(daqNum) >= len(p.lists) {
		return nil, fmt.Errorf("%w: daq %d", errs.ErrInvalidDaqNumber, daqNum)
	}

	result, _, err := p.lists[daqNum].Feed(odtNum, timestamp, payload)

	return result, err
}
