package recorder

import (
	"github.com/xcpgo/xcpcore/decoder"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

// Replay pipes a Reader's frames through filtering-to-DAQ and a
// decoder.Processor, reproducing offline the same sequence of completed
// DAQ lists an online decoder would have produced from the same frames.
type Replay struct {
	reader    *Reader
	processor *decoder.Processor
}

// NewReplay constructs a Replay over reader. reader must carry embedded
// MeasurementParameters (i.e. was opened from a file written with
// HAS_METADATA set); otherwise NewReplay fails with ErrMissingMetadata.
func NewReplay(reader *Reader) (*Replay, error) {
	params := reader.Metadata()
	if params == nil {
		return nil, errs.ErrMissingMetadata
	}

	return &Replay{reader: reader, processor: decoder.NewProcessor(*params)}, nil
}

// Run reads every container from the reader, feeds DAQ-category frames
// through the processor, and invokes onResult for each completed DAQ list
// cycle, in file order. Non-DAQ categories are skipped.
func (r *Replay) Run(onResult func(result *decoder.Result)) error {
	for {
		frames, ok, err := r.reader.NextBlock()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		for _, f := range frames {
			if f.Category != format.CategoryDaq {
				continue
			}

			result, err := r.processor.Feed(f.Timestamp, f.Payload)
			if err != nil {
				return err
			}
			if result != nil && onResult != nil {
				onResult(result)
			}
		}
	}
}

// Reset rewinds the underlying reader so Run can be replayed from the start.
// The processor's per-list state is NOT reset; callers that want a clean
// replay should construct a fresh Replay instead.
func (r *Replay) Reset() { r.reader.Reset() }
