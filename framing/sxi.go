package framing

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xcpgo/xcpcore/errs"
)

// sxiBufferSize is the fixed internal receive buffer. A frame (header +
// payload + checksum + fill) that would not fit resets the receiver and
// reports ErrBufferOverflow.
const sxiBufferSize = 1024

type sxiState uint8

const (
	sxiIdle sxiState = iota
	sxiUntilLength
	sxiRemaining
)

// SXIDispatchFunc receives one fully assembled, checksum-verified SXI frame:
// its payload, declared length, and counter (0 if the configured header has
// no counter field).
type SXIDispatchFunc func(payload []byte, dlc uint16, ctr uint16)

// SXIReceiver assembles XCP frames from a serial byte stream per a
// parameterized header/checksum configuration.
//
// It is a single state machine (Idle -> UntilLength -> Remaining) that
// branches on its Config rather than being specialized per variant, per the
// "never deep inheritance" guidance for this kind of dynamic dispatch.
//
// Not safe for concurrent Feed calls; use one receiver per serial line.
type SXIReceiver struct {
	cfg      Config
	dispatch SXIDispatchFunc
	log      *logrus.Logger

	buffer    [sxiBufferSize]byte
	state     sxiState
	index     int
	dlc       uint16
	ctr       uint16
	remaining int
	fill      uint16
}

// SXIOption configures an SXIReceiver at construction.
type SXIOption func(*SXIReceiver)

// WithSXILogger overrides the logger used to report recoverable framing
// errors (checksum mismatch, buffer overflow). Defaults to the standard
// logrus logger.
func WithSXILogger(log *logrus.Logger) SXIOption {
	return func(r *SXIReceiver) { r.log = log }
}

// NewSXIReceiver creates a receiver for the given header/checksum
// configuration. dispatch is invoked once per successfully decoded frame.
func NewSXIReceiver(cfg Config, dispatch SXIDispatchFunc, opts ...SXIOption) *SXIReceiver {
	r := &SXIReceiver{cfg: cfg, dispatch: dispatch, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	r.reset()

	return r
}

// Feed appends bytes from the wire, dispatching zero or more complete
// frames as they become available. Feeding the same logical stream split at
// any byte boundary produces the same sequence of dispatches as feeding it
// whole.
func (r *SXIReceiver) Feed(data []byte) {
	for _, b := range data {
		r.feedByte(b)
	}
}

func (r *SXIReceiver) reset() {
	r.state = sxiIdle
	r.index = 0
	r.dlc = 0
	r.ctr = 0
	r.remaining = 0
	r.fill = 0
}

func makeWordLE(p []byte) uint16 {
	return uint16(p[0]) | uint16(p[1])<<8
}

func (r *SXIReceiver) feedByte(octet byte) {
	if r.index >= len(r.buffer) {
		r.log.WithError(errs.ErrBufferOverflow).Warn("framing: sxi receive buffer overflow, resetting")
		r.reset()

		return
	}
	r.buffer[r.index] = octet

	if r.state == sxiIdle {
		r.state = sxiUntilLength
		r.fill = 0
	}

	if r.state == sxiUntilLength {
		headerComplete := false

		switch r.cfg.Header {
		case LenByte:
			if r.index == 0 {
				r.dlc = uint16(r.buffer[0])
				r.remaining = int(r.dlc)
				headerComplete = true
			}
		case LenCtrByte, LenFillByte:
			if r.index == 1 {
				r.dlc = uint16(r.buffer[0])
				if r.cfg.Header == LenCtrByte {
					r.ctr = uint16(r.buffer[1])
				}
				r.remaining = int(r.dlc)
				headerComplete = true
			}
		case LenWord:
			if r.index == 1 {
				r.dlc = makeWordLE(r.buffer[0:2])
				r.remaining = int(r.dlc)
				headerComplete = true
			}
		case LenCtrWord, LenFillWord:
			if r.index == 3 {
				r.dlc = makeWordLE(r.buffer[0:2])
				if r.cfg.Header == LenCtrWord {
					r.ctr = makeWordLE(r.buffer[2:4])
				}
				r.remaining = int(r.dlc)
				headerComplete = true
			}
		}

		if headerComplete {
			headerSize := r.cfg.Header.headerSize()

			switch r.cfg.Checksum {
			case ChecksumSum8:
				r.remaining++
			case ChecksumSum16:
				if (headerSize+int(r.dlc))%2 != 0 {
					r.fill = 1
				} else {
					r.fill = 0
				}
				r.remaining += 2 + int(r.fill)
			}

			r.state = sxiRemaining
			if r.remaining != 0 {
				r.index++

				return
			}
		}
	}

	if r.state == sxiRemaining {
		if r.remaining > 0 {
			r.remaining--
		}
		if r.remaining == 0 {
			r.completeFrame()

			return
		}
	}

	r.index++
}

func (r *SXIReceiver) completeFrame() {
	payloadOff := r.cfg.Header.headerSize()

	switch r.cfg.Checksum {
	case ChecksumSum8:
		var sum byte
		for i := 0; i < payloadOff+int(r.dlc)+int(r.fill); i++ {
			sum += r.buffer[i]
		}
		rx := r.buffer[payloadOff+int(r.dlc)]
		if sum != rx {
			r.logChecksumError(sum, rx, payloadOff+int(r.dlc)+1)
			r.reset()

			return
		}
	case ChecksumSum16:
		count := payloadOff + int(r.dlc) + int(r.fill)
		var sum uint16
		for i := 0; i < count; i += 2 {
			sum += makeWordLE(r.buffer[i : i+2])
		}
		rx := makeWordLE(r.buffer[payloadOff+int(r.dlc)+int(r.fill):])
		if sum != rx {
			r.logChecksumError(sum, rx, payloadOff+int(r.dlc)+int(r.fill)+2)
			r.reset()

			return
		}
	}

	if r.dispatch != nil {
		payload := make([]byte, r.dlc)
		copy(payload, r.buffer[payloadOff:payloadOff+int(r.dlc)])
		r.dispatch(payload, r.dlc, r.ctr)
	}
	r.reset()
}

func (r *SXIReceiver) logChecksumError(calculated, received any, packetLen int) {
	r.log.WithError(errs.ErrChecksumMismatch).
		Warnf("framing: sxi checksum mismatch: calculated %v, received %v, packet %s",
			calculated, received, fmt.Sprintf("% x", r.buffer[:packetLen]))
}
