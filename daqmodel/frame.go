package daqmodel

import "github.com/xcpgo/xcpcore/format"

// Frame is one transport-delivered XCP packet as seen by the
// frame-acquisition policy layer and, when recorded, the on-disk log: a
// category tag, the transport's send/receive counter, the arrival
// timestamp in nanoseconds, and the raw payload.
type Frame struct {
	Category  format.FrameCategory
	Counter   uint16
	Timestamp uint64
	Payload   []byte
}

// Length returns the payload length, the value written to disk as the
// frame's length field.
func (f Frame) Length() uint16 { return uint16(len(f.Payload)) }
