package daqmodel

import "github.com/xcpgo/xcpcore/format"

// TimestampInfo describes the slave's notion of wall-clock time at session
// start, embedded in MeasurementParameters for offline replay.
type TimestampInfo struct {
	NS         uint64
	TZ         string
	UTCOffset  int16
	DSTOffset  int16
}

// MeasurementParameters is the session-wide decoding context: everything
// the codec and decoder need to interpret DAQ frames for one connection.
// Produced once per session and immutable after creation; safe to share
// read-only across goroutines.
type MeasurementParameters struct {
	ByteOrder            format.ByteOrder
	IDFieldSize          int
	TimestampsSupported  bool
	TSFixed              bool
	PrescalerSupported   bool
	SelectableTimestamps bool
	TSScaleFactor        float64
	TSSize               int
	MinDAQ               uint16
	TimestampInfo        TimestampInfo
	DaqLists             []DaqList
	FirstPIDs            []uint16
}

// Equal reports whether two MeasurementParameters are structurally
// identical, used by the serializer round-trip tests.
func (p MeasurementParameters) Equal(other MeasurementParameters) bool {
	if p.ByteOrder != other.ByteOrder || p.IDFieldSize != other.IDFieldSize ||
		p.TimestampsSupported != other.TimestampsSupported || p.TSFixed != other.TSFixed ||
		p.PrescalerSupported != other.PrescalerSupported || p.SelectableTimestamps != other.SelectableTimestamps ||
		p.TSScaleFactor != other.TSScaleFactor || p.TSSize != other.TSSize || p.MinDAQ != other.MinDAQ ||
		p.TimestampInfo != other.TimestampInfo {
		return false
	}
	if len(p.FirstPIDs) != len(other.FirstPIDs) || len(p.DaqLists) != len(other.DaqLists) {
		return false
	}
	for i := range p.FirstPIDs {
		if p.FirstPIDs[i] != other.FirstPIDs[i] {
			return false
		}
	}
	for i := range p.DaqLists {
		if !p.DaqLists[i].equal(other.DaqLists[i]) {
			return false
		}
	}

	return true
}

func (d DaqList) equal(o DaqList) bool {
	if d.Name != o.Name || d.EventNum != o.EventNum || d.Stim != o.Stim ||
		d.EnableTimestamps != o.EnableTimestamps || d.Priority != o.Priority || d.Prescaler != o.Prescaler ||
		d.Predefined != o.Predefined || d.OdtCount != o.OdtCount || d.TotalEntries != o.TotalEntries ||
		d.TotalLength != o.TotalLength {
		return false
	}
	if len(d.Measurements) != len(o.Measurements) || len(d.MeasurementsOpt) != len(o.MeasurementsOpt) ||
		len(d.HeaderNames) != len(o.HeaderNames) {
		return false
	}
	for i := range d.Measurements {
		if !d.Measurements[i].Equal(o.Measurements[i]) {
			return false
		}
	}
	for i := range d.MeasurementsOpt {
		if !d.MeasurementsOpt[i].Equal(o.MeasurementsOpt[i]) {
			return false
		}
	}
	for i := range d.HeaderNames {
		if d.HeaderNames[i] != o.HeaderNames[i] {
			return false
		}
	}

	return true
}
