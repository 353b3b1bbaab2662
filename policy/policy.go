// Package policy implements the pluggable frame-acquisition sink: every
// received XCP frame, after framing and before any domain-specific
// handling, passes through one Policy. Implementations decide whether to
// discard it, print it, queue it for a legacy consumer, record it to disk,
// or decode it online.
package policy

import (
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/format"
)

// Policy is a sink for acquired frames. Feed is called once per frame (in
// arrival order); Finalize releases any owned resources and is called at
// most once, at shutdown.
type Policy interface {
	// Feed processes one frame. FilterOut categories are expected to have
	// already been excluded by the caller (see ShouldFilter), but
	// implementations MAY also check it themselves.
	Feed(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error
	// Finalize releases owned resources. Safe to call at most once.
	Finalize() error
	// ShouldFilter reports whether category is configured to be dropped
	// before it ever reaches Feed.
	ShouldFilter(category format.FrameCategory) bool
}

// filterSet is embedded by every concrete policy to implement the shared
// FilterOut bookkeeping, matching spec §4.H's "each implementation declares
// a filter_out set."
type filterSet struct {
	out map[format.FrameCategory]struct{}
}

func newFilterSet(categories ...format.FrameCategory) filterSet {
	m := make(map[format.FrameCategory]struct{}, len(categories))
	for _, c := range categories {
		m[c] = struct{}{}
	}

	return filterSet{out: m}
}

func (f filterSet) ShouldFilter(category format.FrameCategory) bool {
	_, ok := f.out[category]

	return ok
}

// Dispatch feeds frame to p unless its category is filtered out, and
// reports whether it was fed.
func Dispatch(p Policy, frame daqmodel.Frame) (fed bool, err error) {
	if p.ShouldFilter(frame.Category) {
		return false, nil
	}

	if err := p.Feed(frame.Category, frame.Counter, frame.Timestamp, frame.Payload); err != nil {
		return false, err
	}

	return true, nil
}
