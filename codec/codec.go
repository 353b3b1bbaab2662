// Package codec implements the byte-order- and type-aware reader/writer used
// to decode XCP wire payloads: fixed-width integers, IEEE floats (including
// optional F16/BF16), timestamps, and PID fields.
//
// A Codec is built once per session from the byte order advertised in
// MeasurementParameters and reused for the lifetime of the session — the
// endianness decision is never repeated per read.
package codec

import (
	"fmt"
	"math"

	"github.com/xcpgo/xcpcore/endian"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

// Codec reads and writes typed values at byte offsets using a fixed byte
// order, and decodes PID/timestamp fields per a session's id_field_size.
//
// A Codec is not safe for concurrent mutation of its first-PID table via
// SetFirstPIDs, but concurrent reads (Get*/ReadPID/ReadTimestamp) are safe
// once the table has been built.
type Codec struct {
	engine endian.EndianEngine

	// pidIndex maps an absolute ODT number to (daqNum, odtNum) for sessions
	// with id_field_size == 1. Built once via SetFirstPIDs.
	pidIndex map[uint16][2]uint16
}

// New creates a Codec for the given session byte order.
func New(bo format.ByteOrder) *Codec {
	engine := endian.GetLittleEndianEngine()
	if bo == format.ByteOrderMotorola {
		engine = endian.GetBigEndianEngine()
	}

	return &Codec{engine: engine}
}

// Engine returns the underlying byte-order engine, for callers that need
// direct access (e.g. to serialize a header alongside codec-decoded values).
func (c *Codec) Engine() endian.EndianEngine {
	return c.engine
}

// SetFirstPIDs builds the absolute-PID-to-(daq,odt) lookup table used when
// id_field_size == 1. firstPIDs[i] is the absolute PID of ODT 0 for DAQ list
// i; odtCounts[i] is that list's ODT count.
func (c *Codec) SetFirstPIDs(firstPIDs []uint16, odtCounts []uint16) {
	idx := make(map[uint16][2]uint16, len(firstPIDs))
	for daqNum, first := range firstPIDs {
		for odtNum := uint16(0); odtNum < odtCounts[daqNum]; odtNum++ {
			idx[first+odtNum] = [2]uint16{uint16(daqNum), odtNum}
		}
	}
	c.pidIndex = idx
}

// ReadPID decodes the (daq_num, odt_num) pair from the leading PID bytes of
// a DAQ frame, per the id_field_size-dependent layout in spec §4.A.
func (c *Codec) ReadPID(buf []byte, idSize int) (daqNum, odtNum uint16, err error) {
	switch idSize {
	case 1:
		pid := uint16(buf[0])
		entry, ok := c.pidIndex[pid]
		if !ok {
			return 0, 0, fmt.Errorf("%w: pid %d", errs.ErrInvalidDaqNumber, pid)
		}

		return entry[0], entry[1], nil
	case 2:
		return uint16(buf[1]), uint16(buf[0]), nil
	case 3:
		return c.engine.Uint16(buf[1:3]), uint16(buf[0]), nil
	case 4:
		return c.engine.Uint16(buf[2:4]), uint16(buf[0]), nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", errs.ErrUnsupportedIDSize, idSize)
	}
}

// ReadTimestamp decodes the DAQ-frame timestamp field that immediately
// follows the PID bytes of ODT 0, per the configured ts_size.
//
// A ts_size of 0 means timestamps are disabled for this list/session and the
// function returns 0 without reading any bytes.
func (c *Codec) ReadTimestamp(buf []byte, idSize, tsSize int) (uint32, error) {
	switch tsSize {
	case 0:
		return 0, nil
	case 1:
		return uint32(buf[idSize]), nil
	case 2:
		return uint32(c.engine.Uint16(buf[idSize : idSize+2])), nil
	case 4:
		return c.engine.Uint32(buf[idSize : idSize+4]), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrUnsupportedTimestampSize, tsSize)
	}
}

// Value is a typed measurement value decoded by ReadTyped. Exactly one of
// the typed accessor methods is meaningful, selected by Type.
type Value struct {
	Type  format.PrimitiveType
	u     uint64
	i     int64
	f     float64
}

// Uint returns the value as a uint64, valid for unsigned integer types.
func (v Value) Uint() uint64 { return v.u }

// Int returns the value as an int64, valid for signed integer types.
func (v Value) Int() int64 { return v.i }

// Float returns the value as a float64, valid for F32/F64/F16/BF16 types.
func (v Value) Float() float64 { return v.f }

// Interface returns the value boxed as its natural Go type (uint8, int8, ...,
// float32, float64), for callers that want a generic any without switching
// on Type themselves.
func (v Value) Interface() any {
	switch v.Type {
	case format.TypeU8:
		return uint8(v.u)
	case format.TypeI8:
		return int8(v.i)
	case format.TypeU16:
		return uint16(v.u)
	case format.TypeI16:
		return int16(v.i)
	case format.TypeU32:
		return uint32(v.u)
	case format.TypeI32:
		return int32(v.i)
	case format.TypeU64:
		return v.u
	case format.TypeI64:
		return v.i
	case format.TypeF32, format.TypeF16, format.TypeBF16:
		return float32(v.f)
	case format.TypeF64:
		return v.f
	default:
		return nil
	}
}

// ReadTyped reads one value of the given type tag at offset, using the
// codec's byte order. Returns ErrUnsupportedType for an unknown tag.
func (c *Codec) ReadTyped(t format.PrimitiveType, buf []byte, offset int) (Value, error) {
	e := c.engine
	switch t {
	case format.TypeU8:
		return Value{Type: t, u: uint64(buf[offset])}, nil
	case format.TypeI8:
		return Value{Type: t, i: int64(int8(buf[offset]))}, nil
	case format.TypeU16:
		return Value{Type: t, u: uint64(e.Uint16(buf[offset : offset+2]))}, nil
	case format.TypeI16:
		return Value{Type: t, i: int64(int16(e.Uint16(buf[offset : offset+2])))}, nil
	case format.TypeU32:
		return Value{Type: t, u: uint64(e.Uint32(buf[offset : offset+4]))}, nil
	case format.TypeI32:
		return Value{Type: t, i: int64(int32(e.Uint32(buf[offset : offset+4])))}, nil
	case format.TypeU64:
		return Value{Type: t, u: e.Uint64(buf[offset : offset+8])}, nil
	case format.TypeI64:
		return Value{Type: t, i: int64(e.Uint64(buf[offset : offset+8]))}, nil
	case format.TypeF32:
		return Value{Type: t, f: float64(math.Float32frombits(e.Uint32(buf[offset : offset+4])))}, nil
	case format.TypeF64:
		return Value{Type: t, f: math.Float64frombits(e.Uint64(buf[offset : offset+8]))}, nil
	case format.TypeF16:
		return Value{Type: t, f: float64(Float16bitsToFloat32(e.Uint16(buf[offset : offset+2])))}, nil
	case format.TypeBF16:
		return Value{Type: t, f: float64(BFloat16bitsToFloat32(e.Uint16(buf[offset : offset+2])))}, nil
	default:
		return Value{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedType, uint8(t))
	}
}

// WriteTyped writes v at offset according to t, the inverse of ReadTyped.
// Used by tests and by callers that synthesize DAQ frames (e.g. the test
// harness and STIM encoding paths external to this module).
func (c *Codec) WriteTyped(t format.PrimitiveType, buf []byte, offset int, v Value) error {
	e := c.engine
	switch t {
	case format.TypeU8:
		buf[offset] = uint8(v.u)
	case format.TypeI8:
		buf[offset] = uint8(int8(v.i))
	case format.TypeU16:
		e.PutUint16(buf[offset:offset+2], uint16(v.u))
	case format.TypeI16:
		e.PutUint16(buf[offset:offset+2], uint16(int16(v.i)))
	case format.TypeU32:
		e.PutUint32(buf[offset:offset+4], uint32(v.u))
	case format.TypeI32:
		e.PutUint32(buf[offset:offset+4], uint32(int32(v.i)))
	case format.TypeU64:
		e.PutUint64(buf[offset:offset+8], v.u)
	case format.TypeI64:
		e.PutUint64(buf[offset:offset+8], uint64(v.i))
	case format.TypeF32:
		e.PutUint32(buf[offset:offset+4], math.Float32bits(float32(v.f)))
	case format.TypeF64:
		e.PutUint64(buf[offset:offset+8], math.Float64bits(v.f))
	case format.TypeF16:
		e.PutUint16(buf[offset:offset+2], Float32ToFloat16bits(float32(v.f)))
	case format.TypeBF16:
		e.PutUint16(buf[offset:offset+2], Float32ToBFloat16bits(float32(v.f)))
	default:
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedType, uint8(t))
	}

	return nil
}

// NewUintValue builds a Value of the given unsigned/float type tag from a
// uint64/int64/float64 source, for test fixtures and encoders.
func NewUintValue(t format.PrimitiveType, u uint64) Value   { return Value{Type: t, u: u} }
func NewIntValue(t format.PrimitiveType, i int64) Value     { return Value{Type: t, i: i} }
func NewFloatValue(t format.PrimitiveType, f float64) Value { return Value{Type: t, f: f} }
