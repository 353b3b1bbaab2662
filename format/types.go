// Package format defines the stable, wire-visible type tags used throughout
// xcpcore: primitive measurement types, byte order, and frame categories.
//
// The tag-to-size mapping here is fixed and must match across any writer and
// reader: it is embedded in serialized MeasurementParameters and referenced
// by every ODT entry's type_index.
package format

import "fmt"

// PrimitiveType is the stable integer tag identifying a measurable value's
// wire type. Values 0-9 are always available; 10 (F16) and 11 (BF16) require
// the codec to have float16/bfloat16 support compiled in.
type PrimitiveType uint8

const (
	TypeU8 PrimitiveType = iota
	TypeI8
	TypeU16
	TypeI16
	TypeU32
	TypeI32
	TypeU64
	TypeI64
	TypeF32
	TypeF64
	TypeF16
	TypeBF16
)

// typeNames and typeSizes mirror each other index-for-index; both MUST stay
// in lockstep with the PrimitiveType const block above.
var typeNames = [...]string{
	TypeU8: "U8", TypeI8: "I8", TypeU16: "U16", TypeI16: "I16",
	TypeU32: "U32", TypeI32: "I32", TypeU64: "U64", TypeI64: "I64",
	TypeF32: "F32", TypeF64: "F64", TypeF16: "F16", TypeBF16: "BF16",
}

var typeSizes = [...]uint8{
	TypeU8: 1, TypeI8: 1, TypeU16: 2, TypeI16: 2,
	TypeU32: 4, TypeI32: 4, TypeU64: 8, TypeI64: 8,
	TypeF32: 4, TypeF64: 8, TypeF16: 2, TypeBF16: 2,
}

// String returns the canonical name of the type tag, or "Unknown" if t is
// outside the known range.
func (t PrimitiveType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Unknown"
}

// Size returns the fixed byte width of the type tag.
//
// Returns:
//   - int: byte width
//   - error: non-nil if t is outside the known range
func (t PrimitiveType) Size() (int, error) {
	if int(t) >= len(typeSizes) {
		return 0, fmt.Errorf("format: unknown primitive type tag %d", uint8(t))
	}

	return int(typeSizes[t]), nil
}

// ParseTypeName resolves a type name (as found in a measurement descriptor)
// back to its stable tag.
//
// Returns:
//   - PrimitiveType: resolved tag
//   - bool: false if name is not recognized
func ParseTypeName(name string) (PrimitiveType, bool) {
	for i, n := range typeNames {
		if n == name {
			return PrimitiveType(i), true
		}
	}

	return 0, false
}

// ByteOrder identifies the session-wide byte order advertised by the slave,
// per MeasurementParameters.byte_order.
type ByteOrder uint8

const (
	ByteOrderIntel    ByteOrder = 0 // little-endian
	ByteOrderMotorola ByteOrder = 1 // big-endian
)

func (b ByteOrder) String() string {
	if b == ByteOrderMotorola {
		return "Motorola"
	}

	return "Intel"
}

// FrameCategory identifies the kind of payload carried by a recorded Frame.
type FrameCategory uint8

const (
	CategoryMeta FrameCategory = iota
	CategoryCmd
	CategoryRes
	CategoryErr
	CategoryEv
	CategoryServ
	CategoryDaq
	CategoryStim
)

var categoryNames = [...]string{
	CategoryMeta: "META", CategoryCmd: "CMD", CategoryRes: "RES", CategoryErr: "ERR",
	CategoryEv: "EV", CategoryServ: "SERV", CategoryDaq: "DAQ", CategoryStim: "STIM",
}

func (c FrameCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return "Unknown"
}
