package daqmodel

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

// Fixed-width primitives are written in host byte order (writer and reader
// run in the same process at creation time, or share the contract via the
// log metadata block); strings and collections are length-prefixed with a
// usize (here: uint64) word.

func putUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.NativeEndian.PutUint16(tmp[:], v)

	return append(buf, tmp[:]...)
}

func putUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.NativeEndian.PutUint32(tmp[:], v)

	return append(buf, tmp[:]...)
}

func putUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.NativeEndian.PutUint64(tmp[:], v)

	return append(buf, tmp[:]...)
}

func putInt16(buf []byte, v int16) []byte { return putUint16(buf, uint16(v)) }
func putFloat64(buf []byte, v float64) []byte { return putUint64(buf, math.Float64bits(v)) }
func putBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}

	return append(buf, 0)
}

func putString(buf []byte, s string) []byte {
	buf = putUint64(buf, uint64(len(s)))

	return append(buf, s...)
}

// cursor reads length-prefixed fields sequentially from a shared buffer,
// failing with errs.ErrTruncatedBuffer if a read would run past the end.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) need(n int) error {
	if c.pos+n > len(c.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedBuffer, n, c.pos, len(c.buf))
	}

	return nil
}

func (c *cursor) uint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.NativeEndian.Uint16(c.buf[c.pos:])
	c.pos += 2

	return v, nil
}

func (c *cursor) uint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.NativeEndian.Uint32(c.buf[c.pos:])
	c.pos += 4

	return v, nil
}

func (c *cursor) uint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.NativeEndian.Uint64(c.buf[c.pos:])
	c.pos += 8

	return v, nil
}

func (c *cursor) int16() (int16, error) {
	v, err := c.uint16()

	return int16(v), err
}

func (c *cursor) float64() (float64, error) {
	v, err := c.uint64()

	return math.Float64frombits(v), err
}

func (c *cursor) bool() (bool, error) {
	if err := c.need(1); err != nil {
		return false, err
	}
	v := c.buf[c.pos] != 0
	c.pos++

	return v, nil
}

func (c *cursor) string() (string, error) {
	n, err := c.uint64()
	if err != nil {
		return "", err
	}
	if err := c.need(int(n)); err != nil {
		return "", err
	}
	s := string(c.buf[c.pos : c.pos+int(n)])
	c.pos += int(n)

	return s, nil
}

func encodeMcObject(buf []byte, m McObject) []byte {
	buf = putString(buf, m.Name)
	buf = putUint32(buf, m.Address)
	buf = append(buf, m.Ext)
	buf = putUint16(buf, m.Length)
	buf = putString(buf, m.DataType)
	buf = putInt16(buf, m.TypeIndex)
	buf = putUint64(buf, uint64(len(m.Components)))
	for _, c := range m.Components {
		buf = encodeMcObject(buf, c)
	}

	return buf
}

func decodeMcObject(c *cursor) (McObject, error) {
	var m McObject

	name, err := c.string()
	if err != nil {
		return m, err
	}
	address, err := c.uint32()
	if err != nil {
		return m, err
	}
	if err := c.need(1); err != nil {
		return m, err
	}
	ext := c.buf[c.pos]
	c.pos++
	length, err := c.uint16()
	if err != nil {
		return m, err
	}
	dataType, err := c.string()
	if err != nil {
		return m, err
	}
	typeIndex, err := c.int16()
	if err != nil {
		return m, err
	}
	ccount, err := c.uint64()
	if err != nil {
		return m, err
	}

	components := make([]McObject, 0, ccount)
	for i := uint64(0); i < ccount; i++ {
		comp, err := decodeMcObject(c)
		if err != nil {
			return m, err
		}
		components = append(components, comp)
	}

	m = McObject{
		Name: name, Address: address, Ext: ext, Length: length,
		DataType: dataType, TypeIndex: typeIndex, Components: components,
	}

	return m, nil
}

func encodeBin(buf []byte, b Bin) []byte {
	buf = putUint16(buf, b.Size)
	buf = putUint16(buf, b.ResidualCapacity)
	buf = putUint64(buf, uint64(len(b.Entries)))
	for _, e := range b.Entries {
		buf = encodeMcObject(buf, e)
	}

	return buf
}

func decodeBin(c *cursor) (Bin, error) {
	var b Bin

	size, err := c.uint16()
	if err != nil {
		return b, err
	}
	residual, err := c.uint16()
	if err != nil {
		return b, err
	}
	n, err := c.uint64()
	if err != nil {
		return b, err
	}

	entries := make([]McObject, 0, n)
	for i := uint64(0); i < n; i++ {
		obj, err := decodeMcObject(c)
		if err != nil {
			return b, err
		}
		entries = append(entries, obj)
	}

	b = Bin{Size: size, ResidualCapacity: residual, Entries: entries}

	return b, nil
}

func encodeDaqList(buf []byte, d DaqList) []byte {
	buf = putString(buf, d.Name)
	buf = putUint16(buf, d.EventNum)
	buf = putBool(buf, d.Stim)
	buf = putBool(buf, d.EnableTimestamps)
	buf = append(buf, d.Priority, d.Prescaler)
	buf = putBool(buf, d.Predefined)

	buf = putUint16(buf, d.OdtCount)
	buf = putUint16(buf, d.TotalEntries)
	buf = putUint16(buf, d.TotalLength)

	buf = putUint64(buf, uint64(len(d.Measurements)))
	for _, m := range d.Measurements {
		buf = encodeMcObject(buf, m)
	}

	buf = putUint64(buf, uint64(len(d.MeasurementsOpt)))
	for _, b := range d.MeasurementsOpt {
		buf = encodeBin(buf, b)
	}

	buf = putUint64(buf, uint64(len(d.HeaderNames)))
	for _, h := range d.HeaderNames {
		buf = putString(buf, h)
	}

	return buf
}

func decodeDaqList(c *cursor) (DaqList, error) {
	var d DaqList

	name, err := c.string()
	if err != nil {
		return d, err
	}
	eventNum, err := c.uint16()
	if err != nil {
		return d, err
	}
	stim, err := c.bool()
	if err != nil {
		return d, err
	}
	enableTS, err := c.bool()
	if err != nil {
		return d, err
	}
	if err := c.need(2); err != nil {
		return d, err
	}
	priority, prescaler := c.buf[c.pos], c.buf[c.pos+1]
	c.pos += 2
	predefined, err := c.bool()
	if err != nil {
		return d, err
	}
	odtCount, err := c.uint16()
	if err != nil {
		return d, err
	}
	totalEntries, err := c.uint16()
	if err != nil {
		return d, err
	}
	totalLength, err := c.uint16()
	if err != nil {
		return d, err
	}

	measCount, err := c.uint64()
	if err != nil {
		return d, err
	}
	measurements := make([]McObject, 0, measCount)
	for i := uint64(0); i < measCount; i++ {
		obj, err := decodeMcObject(c)
		if err != nil {
			return d, err
		}
		measurements = append(measurements, obj)
	}

	binCount, err := c.uint64()
	if err != nil {
		return d, err
	}
	bins := make([]Bin, 0, binCount)
	for i := uint64(0); i < binCount; i++ {
		b, err := decodeBin(c)
		if err != nil {
			return d, err
		}
		bins = append(bins, b)
	}

	headerCount, err := c.uint64()
	if err != nil {
		return d, err
	}
	headers := make([]string, 0, headerCount)
	for i := uint64(0); i < headerCount; i++ {
		h, err := c.string()
		if err != nil {
			return d, err
		}
		headers = append(headers, h)
	}

	d = DaqList{
		Name: name, EventNum: eventNum, Stim: stim, EnableTimestamps: enableTS,
		Priority: priority, Prescaler: prescaler, Predefined: predefined,
		Measurements: measurements, MeasurementsOpt: bins, HeaderNames: headers,
		OdtCount: odtCount, TotalEntries: totalEntries, TotalLength: totalLength,
	}
	d.recomputeFlattenOdts()

	return d, nil
}

// recomputeFlattenOdts rebuilds the decoder-facing flattened view from
// MeasurementsOpt after deserialization, since FlattenOdts is a derived
// field and is not itself serialized.
func (d *DaqList) recomputeFlattenOdts() {
	bins := d.MeasurementsOpt
	d.SetMeasurementsOpt(bins)
}

// EncodeMeasurementParameters serializes p per spec §4.E/§4.L: a
// length-prefixed, host-byte-order binary form that round-trips exactly
// through DecodeMeasurementParameters.
func EncodeMeasurementParameters(p MeasurementParameters) []byte {
	var buf []byte

	buf = append(buf, byte(p.ByteOrder))
	buf = putUint16(buf, uint16(p.IDFieldSize))
	buf = putBool(buf, p.TimestampsSupported)
	buf = putBool(buf, p.TSFixed)
	buf = putBool(buf, p.PrescalerSupported)
	buf = putBool(buf, p.SelectableTimestamps)
	buf = putFloat64(buf, p.TSScaleFactor)
	buf = putUint16(buf, uint16(p.TSSize))
	buf = putUint16(buf, p.MinDAQ)

	buf = putUint64(buf, p.TimestampInfo.NS)
	buf = putString(buf, p.TimestampInfo.TZ)
	buf = putInt16(buf, p.TimestampInfo.UTCOffset)
	buf = putInt16(buf, p.TimestampInfo.DSTOffset)

	buf = putUint64(buf, uint64(len(p.DaqLists)))
	for _, d := range p.DaqLists {
		buf = encodeDaqList(buf, d)
	}

	buf = putUint64(buf, uint64(len(p.FirstPIDs)))
	for _, pid := range p.FirstPIDs {
		buf = putUint16(buf, pid)
	}

	return buf
}

// DecodeMeasurementParameters is the inverse of EncodeMeasurementParameters.
func DecodeMeasurementParameters(data []byte) (MeasurementParameters, error) {
	c := &cursor{buf: data}
	var p MeasurementParameters

	if err := c.need(1); err != nil {
		return p, err
	}
	p.ByteOrder = format.ByteOrder(c.buf[c.pos])
	c.pos++

	idSize, err := c.uint16()
	if err != nil {
		return p, err
	}
	p.IDFieldSize = int(idSize)

	if p.TimestampsSupported, err = c.bool(); err != nil {
		return p, err
	}
	if p.TSFixed, err = c.bool(); err != nil {
		return p, err
	}
	if p.PrescalerSupported, err = c.bool(); err != nil {
		return p, err
	}
	if p.SelectableTimestamps, err = c.bool(); err != nil {
		return p, err
	}
	if p.TSScaleFactor, err = c.float64(); err != nil {
		return p, err
	}
	tsSize, err := c.uint16()
	if err != nil {
		return p, err
	}
	p.TSSize = int(tsSize)
	if p.MinDAQ, err = c.uint16(); err != nil {
		return p, err
	}

	if p.TimestampInfo.NS, err = c.uint64(); err != nil {
		return p, err
	}
	if p.TimestampInfo.TZ, err = c.string(); err != nil {
		return p, err
	}
	if p.TimestampInfo.UTCOffset, err = c.int16(); err != nil {
		return p, err
	}
	if p.TimestampInfo.DSTOffset, err = c.int16(); err != nil {
		return p, err
	}

	daqCount, err := c.uint64()
	if err != nil {
		return p, err
	}
	p.DaqLists = make([]DaqList, 0, daqCount)
	for i := uint64(0); i < daqCount; i++ {
		d, err := decodeDaqList(c)
		if err != nil {
			return p, err
		}
		p.DaqLists = append(p.DaqLists, d)
	}

	pidCount, err := c.uint64()
	if err != nil {
		return p, err
	}
	p.FirstPIDs = make([]uint16, 0, pidCount)
	for i := uint64(0); i < pidCount; i++ {
		pid, err := c.uint16()
		if err != nil {
			return p, err
		}
		p.FirstPIDs = append(p.FirstPIDs, pid)
	}

	return p, nil
}
