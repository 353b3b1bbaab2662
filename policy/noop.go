package policy

import "github.com/xcpgo/xcpcore/format"

// NoOp discards every frame fed to it. Useful as a default sink when a
// caller wants framing/decoding exercised without any downstream effect.
type NoOp struct {
	filterSet
}

// NewNoOp creates a NoOp policy, optionally filtering out categories.
func NewNoOp(filterOut ...format.FrameCategory) *NoOp {
	return &NoOp{filterSet: newFilterSet(filterOut...)}
}

func (*NoOp) Feed(format.FrameCategory, uint16, uint64, []byte) error { return nil }
func (*NoOp) Finalize() error                                        { return nil }
