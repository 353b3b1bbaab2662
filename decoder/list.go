// Package decoder implements the DAQ side of the core: a per-list
// ODT-sequencing state machine (list.go, spec §4.F) and a processor that
// dispatches incoming frames to the right list by PID (processor.go,
// spec §4.G).
package decoder

import (
	"fmt"

	"github.com/xcpgo/xcpcore/codec"
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

// primitiveType converts a flattened ODT entry's stored type index back to
// its PrimitiveType tag.
func primitiveType(typeIndex int16) format.PrimitiveType {
	return format.PrimitiveType(typeIndex)
}

// State identifies where a ListState is in its ODT-sequencing cycle.
type State uint8

const (
	Idle State = iota
	Collecting
	Finished
	Ignore
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Collecting:
		return "Collecting"
	case Finished:
		return "Finished"
	case Ignore:
		return "Ignore"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Result is the unfolded output of one completed DAQ list cycle.
type Result struct {
	DaqNum     uint16
	Timestamp0 uint64 // host arrival time of ODT 0, ns
	Timestamp1 float64 // slave ECU time of ODT 0, scaled
	Values     []codec.Value
}

// ListState is the per-DAQ-list ODT-sequencing state machine. An
// out-of-order, duplicated, or missing ODT yields State Error and resets
// to Idle; only ODT 0 can resynchronize a list after that.
//
// Not safe for concurrent Feed calls; one ListState per DAQ list, fed by a
// single Processor.
type ListState struct {
	daqNum           uint16
	list             daqmodel.DaqList
	codec            *codec.Codec
	idFieldSize      int
	tsSize           int
	tsScaleFactor    float64
	enableTimestamps bool

	state   State
	nextOdt uint16
	values  []codec.Value
	ts0     uint64
	ts1     float64
}

// NewListState builds the state machine for one DAQ list.
func NewListState(daqNum uint16, list daqmodel.DaqList, c *codec.Codec, idFieldSize, tsSize int, tsScaleFactor float64) *ListState {
	return &ListState{
		daqNum:           daqNum,
		list:             list,
		codec:            c,
		idFieldSize:      idFieldSize,
		tsSize:           tsSize,
		tsScaleFactor:    tsScaleFactor,
		enableTimestamps: list.EnableTimestamps,
		state:            Idle,
	}
}

// Feed advances the state machine with one received ODT. timestamp0 is the
// host arrival time (ns) associated with the frame carrying this ODT. On a
// transition to Finished, Feed returns the unfolded Result and resets to
// Idle for the next cycle.
func (s *ListState) Feed(odtNum uint16, timestamp0 uint64, payload []byte) (*Result, State, error) {
	numOdts := uint16(len(s.list.FlattenOdts))

	switch s.state {
	case Idle:
		if odtNum != 0 {
			return nil, Ignore, nil
		}

		if err := s.parseOdt(0, timestamp0, payload); err != nil {
			s.reset()

			return nil, Error, err
		}

		if numOdts == 1 {
			result := s.result()
			s.reset()

			return result, Finished, nil
		}

		s.state = Collecting
		s.nextOdt = 1

		return nil, Collecting, nil

	case Collecting:
		if odtNum != s.nextOdt {
			s.reset()

			return nil, Error, nil
		}

		if err := s.parseOdt(odtNum, timestamp0, payload); err != nil {
			s.reset()

			return nil, Error, err
		}
		s.nextOdt++

		if s.nextOdt == numOdts {
			result := s.result()
			s.reset()

			return result, Finished, nil
		}

		return nil, Collecting, nil

	default:
		return nil, Ignore, nil
	}
}

func (s *ListState) reset() {
	s.state = Idle
	s.nextOdt = 0
	s.values = nil
	s.ts0 = 0
	s.ts1 = 0
}

func (s *ListState) result() *Result {
	return &Result{DaqNum: s.daqNum, Timestamp0: s.ts0, Timestamp1: s.ts1, Values: s.values}
}

func (s *ListState) parseOdt(odtNum uint16, timestamp0 uint64, payload []byte) error {
	if int(odtNum) >= len(s.list.FlattenOdts) {
		return fmt.Errorf("%w: odt %d exceeds list %d odt count", errs.ErrOffsetOutOfRange, odtNum, s.daqNum)
	}

	off := s.idFieldSize

	if odtNum == 0 {
		s.ts0 = timestamp0
		if s.enableTimestamps && s.tsSize > 0 {
			raw, err := s.codec.ReadTimestamp(payload, s.idFieldSize, s.tsSize)
			if err != nil {
				return err
			}
			s.ts1 = float64(raw) * s.tsScaleFactor
			off += s.tsSize
		}
	}

	for _, entry := range s.list.FlattenOdts[odtNum] {
		if off+int(entry.Size) > len(payload) {
			return fmt.Errorf("%w: entry %q at offset %d, size %d, payload len %d",
				errs.ErrOffsetOutOfRange, entry.Name, off, entry.Size, len(payload))
		}

		v, err := s.codec.ReadTyped(primitiveType(entry.TypeIndex), payload, off)
		if err != nil {
			return err
		}
		s.values = append(s.values, v)
		off += int(entry.Size)
	}

	return nil
}
