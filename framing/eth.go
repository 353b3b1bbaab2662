package framing

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ethHeaderSize is the fixed 4-byte XCP-on-Ethernet header: length (u16 LE)
// followed by counter (u16 LE).
const ethHeaderSize = 4

type ethState uint8

const (
	ethUntilHeader ethState = iota
	ethUntilPayload
)

// EthDispatchFunc receives one fully assembled Ethernet-framed XCP packet:
// its payload, header-declared counter, and arrival timestamp (nanoseconds
// since epoch, captured when the first header byte of this packet arrived).
type EthDispatchFunc func(payload []byte, ctr uint16, timestamp uint64)

// EthReceiver assembles XCP packets from an Ethernet byte stream (TCP or
// UDP). The wire header is fixed: a u16 LE length followed by a u16 LE
// counter, with no checksum (the transport already guarantees integrity).
//
// Separate Idle and UntilHeader states are merged into one: both mean
// "fewer than ethHeaderSize header bytes seen so far," and splitting them
// added no observable behavior.
//
// A length of 0 is a keepalive: it is consumed and produces no dispatch.
//
// Not safe for concurrent Feed calls; use one receiver per connection.
type EthReceiver struct {
	dispatch EthDispatchFunc
	log      *logrus.Logger

	state     ethState
	header    [ethHeaderSize]byte
	hLen      int
	length    uint16
	ctr       uint16
	payload   []byte
	pLen      int
	arrivalTS uint64
}

// EthOption configures an EthReceiver at construction.
type EthOption func(*EthReceiver)

// WithEthLogger overrides the logger used for diagnostic framing events
// (e.g. keepalive receipt). Defaults to the standard logrus logger.
func WithEthLogger(log *logrus.Logger) EthOption {
	return func(r *EthReceiver) { r.log = log }
}

// NewEthReceiver creates a receiver. dispatch is invoked once per decoded,
// non-keepalive packet.
func NewEthReceiver(dispatch EthDispatchFunc, opts ...EthOption) *EthReceiver {
	r := &EthReceiver{dispatch: dispatch, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	r.reset()

	return r
}

// Feed appends bytes from the wire, dispatching zero or more complete
// packets. A stream split at any byte boundary dispatches the same packets
// as the unsplit stream, independent of the underlying transport.
func (r *EthReceiver) Feed(data []byte) {
	for len(data) > 0 {
		switch r.state {
		case ethUntilHeader:
			if r.hLen == 0 {
				r.arrivalTS = uint64(time.Now().UnixNano())
			}

			n := copy(r.header[r.hLen:], data)
			r.hLen += n
			data = data[n:]

			if r.hLen == ethHeaderSize {
				r.length = makeWordLE(r.header[0:2])
				r.ctr = makeWordLE(r.header[2:4])

				if r.length == 0 {
					r.log.Debug("framing: eth keepalive received")
					r.reset()

					continue
				}

				r.payload = make([]byte, r.length)
				r.pLen = 0
				r.state = ethUntilPayload
			}
		case ethUntilPayload:
			n := copy(r.payload[r.pLen:], data)
			r.pLen += n
			data = data[n:]

			if r.pLen == int(r.length) {
				if r.dispatch != nil {
					r.dispatch(r.payload, r.ctr, r.arrivalTS)
				}
				r.reset()
			}
		}
	}
}

func (r *EthReceiver) reset() {
	r.state = ethUntilHeader
	r.hLen = 0
	r.length = 0
	r.ctr = 0
	r.payload = nil
	r.pLen = 0
	r.arrivalTS = 0
}
