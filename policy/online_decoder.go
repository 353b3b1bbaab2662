package policy

import (
	"github.com/xcpgo/xcpcore/decoder"
	"github.com/xcpgo/xcpcore/format"
)

// OnlineDecoder forwards DAQ-category frames to a *decoder.Processor and
// invokes a user callback for each completed DAQ list cycle. Non-DAQ
// categories are dropped.
type OnlineDecoder struct {
	filterSet
	processor *decoder.Processor
	onResult  func(result *decoder.Result)
}

// NewOnlineDecoder creates an OnlineDecoder. onResult is invoked
// synchronously, on the goroutine calling Feed, once per completed list.
func NewOnlineDecoder(processor *decoder.Processor, onResult func(result *decoder.Result), filterOut ...format.FrameCategory) *OnlineDecoder {
	return &OnlineDecoder{filterSet: newFilterSet(filterOut...), processor: processor, onResult: onResult}
}

func (d *OnlineDecoder) Feed(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error {
	if category != format.CategoryDaq {
		return nil
	}

	result, err := d.processor.Feed(timestamp, payload)
	if err != nil {
		return err
	}
	if result != nil && d.onResult != nil {
		d.onResult(result)
	}

	return nil
}

func (*OnlineDecoder) Finalize() error { return nil }
