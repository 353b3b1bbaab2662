// Package xcpcore is the native core of an XCP (Universal Measurement and
// Calibration Protocol) master: wire framing for serial (SXI) and Ethernet
// transports, DAQ/STIM frame decoding driven by session measurement
// parameters, pluggable frame-acquisition policies, and a compressed,
// memory-mapped log recorder/replayer.
//
// # Package structure
//
// This package provides convenient top-level wrappers around the
// lower-level packages (framing, request, daqmodel, decoder, policy,
// recorder). For advanced usage and fine-grained control, use those
// packages directly.
//
// # Basic usage
//
// Decoding a live DAQ stream over Ethernet:
//
//	params := daqmodel.MeasurementParameters{ /* from your XCP session negotiation */ }
//	proc := xcpcore.NewDecoder(params)
//
//	recv := xcpcore.NewEthReceiver(func(payload []byte, ctr uint16, timestamp uint64) {
//	    result, err := proc.Feed(timestamp, payload)
//	    if err == nil && result != nil {
//	        fmt.Printf("daq=%d values=%v\n", result.DaqNum, result.Values)
//	    }
//	})
//	recv.Feed(tcpBytes)
//
// Recording a session to a log file and replaying it offline:
//
//	w, _ := xcpcore.NewWriter("session.xcpraw", 64, 1<<20, &params)
//	w.AddFrame(format.CategoryDaq, ctr, uint64(time.Now().UnixNano()), payload)
//	w.Finalize()
//
//	r, _ := xcpcore.NewReader("session.xcpraw")
//	replay, _ := xcpcore.NewReplay(r)
//	replay.Run(func(result *decoder.Result) { /* ... */ })
package xcpcore

import (
	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/decoder"
	"github.com/xcpgo/xcpcore/format"
	"github.com/xcpgo/xcpcore/framing"
	"github.com/xcpgo/xcpcore/policy"
	"github.com/xcpgo/xcpcore/recorder"
	"github.com/xcpgo/xcpcore/request"
)

// NewSXIReceiver creates a serial (SXI) frame receiver for the given header
// and checksum configuration. dispatch is invoked once per complete,
// checksum-verified frame.
func NewSXIReceiver(cfg framing.Config, dispatch framing.SXIDispatchFunc, opts ...framing.SXIOption) *framing.SXIReceiver {
	return framing.NewSXIReceiver(cfg, dispatch, opts...)
}

// NewEthReceiver creates an Ethernet frame receiver. dispatch is invoked
// once per complete frame with its payload, counter, and arrival timestamp;
// zero-length frames (keepalives) are swallowed.
func NewEthReceiver(dispatch framing.EthDispatchFunc, opts ...framing.EthOption) *framing.EthReceiver {
	return framing.NewEthReceiver(dispatch, opts...)
}

// NewRequestBuilder creates an XCP outbound-command builder with its own
// monotonic send counter.
func NewRequestBuilder(cfg request.FramingConfig) *request.Builder {
	return request.NewBuilder(cfg)
}

// NewDecoder builds a DAQ processor for a session's measurement
// parameters: one per-list state machine per params.DaqLists entry, sharing
// one byte-order-aware codec.
func NewDecoder(params daqmodel.MeasurementParameters) *decoder.Processor {
	return decoder.NewProcessor(params)
}

// NewWriter opens a new log file, preallocating preallocMB megabytes and
// compressing in chunkBytes-sized batches. metadata, if non-nil, is
// embedded so the file can later be replayed without external session
// state (see NewReplay).
func NewWriter(path string, preallocMB, chunkBytes int, metadata *daqmodel.MeasurementParameters, opts ...recorder.WriterOption) (*recorder.Writer, error) {
	return recorder.NewWriter(path, preallocMB, chunkBytes, metadata, opts...)
}

// NewReader opens an existing log file for sequential reading.
func NewReader(path string) (*recorder.Reader, error) {
	return recorder.NewReader(path)
}

// NewReplay builds an offline replay decoder over an already-open reader.
// Fails if the reader's file carries no embedded MeasurementParameters.
func NewReplay(r *recorder.Reader) (*recorder.Replay, error) {
	return recorder.NewReplay(r)
}

// NewNoOpPolicy creates a frame-acquisition policy that discards everything.
func NewNoOpPolicy(filterOut ...format.FrameCategory) *policy.NoOp {
	return policy.NewNoOp(filterOut...)
}

// NewStdoutPolicy creates a frame-acquisition policy that prints one
// human-readable line per frame to stdout.
func NewStdoutPolicy(filterOut ...format.FrameCategory) *policy.Stdout {
	return policy.NewStdout(filterOut...)
}

// NewLegacyQueuesPolicy creates a frame-acquisition policy fanning frames
// out into one unbounded, blocking-pop queue per category.
func NewLegacyQueuesPolicy(filterOut ...format.FrameCategory) *policy.LegacyQueues {
	return policy.NewLegacyQueues(filterOut...)
}

// NewRecorderPolicy creates a frame-acquisition policy that persists every
// non-filtered frame to a log writer.
func NewRecorderPolicy(w *recorder.Writer, filterOut ...format.FrameCategory) *policy.Recorder {
	return policy.NewRecorder(w, filterOut...)
}

// NewOnlineDecoderPolicy creates a frame-acquisition policy that decodes DAQ
// frames online through proc, invoking onResult once per completed list.
func NewOnlineDecoderPolicy(proc *decoder.Processor, onResult func(result *decoder.Result), filterOut ...format.FrameCategory) *policy.OnlineDecoder {
	return policy.NewOnlineDecoder(proc, onResult, filterOut...)
}
