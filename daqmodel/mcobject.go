// Package daqmodel holds the typed description of what a DAQ session
// measures: memory objects, bin-packed ODTs, DAQ lists, and the session-wide
// MeasurementParameters that ties them together. It also implements the
// length-prefixed binary encoding (serialize.go) used both to hash McObject
// trees and to embed parameters in a recorder log's metadata section.
package daqmodel

import (
	"fmt"
	"strings"

	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
	"github.com/xcpgo/xcpcore/internal/hash"
)

// McObject is a measurable memory object: a named address range of a known
// (or explicitly given) length, optionally composed of named components
// (for composite/struct-like measurements).
type McObject struct {
	Name       string
	Address    uint32
	Ext        uint8
	Length     uint16
	DataType   string
	TypeIndex  int16
	Components []McObject
}

// NewMcObject builds an McObject. If dataType is non-empty it must name one
// of format's primitive types (case-insensitive); Length and TypeIndex are
// then derived from the type table, overriding any explicit length.
func NewMcObject(name string, address uint32, ext uint8, length uint16, dataType string, components ...McObject) (McObject, error) {
	obj := McObject{
		Name:       name,
		Address:    address,
		Ext:        ext,
		Length:     length,
		DataType:   dataType,
		TypeIndex:  -1,
		Components: components,
	}

	if dataType == "" {
		return obj, nil
	}

	pt, ok := format.ParseTypeName(strings.ToUpper(dataType))
	if !ok {
		return McObject{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedType, dataType)
	}

	size, err := pt.Size()
	if err != nil {
		return McObject{}, err
	}

	obj.TypeIndex = int16(pt)
	obj.Length = uint16(size)

	return obj, nil
}

// Equal reports whether two McObject trees are structurally identical.
func (m McObject) Equal(other McObject) bool {
	if m.Name != other.Name || m.Address != other.Address || m.Ext != other.Ext ||
		m.Length != other.Length || m.DataType != other.DataType || m.TypeIndex != other.TypeIndex {
		return false
	}
	if len(m.Components) != len(other.Components) {
		return false
	}
	for i := range m.Components {
		if !m.Components[i].Equal(other.Components[i]) {
			return false
		}
	}

	return true
}

// ComponentsHash returns a stable hash of this object's serialized binary
// form, combined recursively with every component's hash. Two McObject
// trees with the same hash are structurally identical for the purposes of
// bin-packing change detection across reconnects.
func (m McObject) ComponentsHash() uint64 {
	h := hash.ID(string(encodeMcObject(nil, m)))
	for _, c := range m.Components {
		h ^= c.ComponentsHash()*1099511628211 + 0x9e3779b97f4a7c15
	}

	return h
}

func (m McObject) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("McObject(name=%q, address=%d, ext=%d, data_type=%q, length=%d",
		m.Name, m.Address, m.Ext, m.DataType, m.Length))
	if len(m.Components) > 0 {
		sb.WriteString(", components=[")
		for i, c := range m.Components {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString(")")

	return sb.String()
}
