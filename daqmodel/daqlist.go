package daqmodel

// FlattenEntry is one decoder-facing slot of a flattened ODT: a bin entry's
// direct components (or the entry itself when it has none), in wire order.
// Only one level of components is expanded.
type FlattenEntry struct {
	Name      string
	Address   uint32
	Ext       uint8
	Size      uint16
	TypeIndex int16
}

// DaqList describes one configured DAQ list: its measurement objects, the
// ODTs they have been bin-packed into, and the flattened view the decoder
// reads from.
//
// Invariant: sum(len(MeasurementsOpt)) == OdtCount, and the sum of every
// flattened entry's Size equals TotalLength — both are maintained by
// SetMeasurementsOpt, the only way to populate MeasurementsOpt.
type DaqList struct {
	Name                string
	EventNum            uint16
	Stim                bool
	EnableTimestamps    bool
	Priority            uint8
	Prescaler           uint8
	Predefined          bool
	Measurements        []McObject
	MeasurementsOpt     []Bin
	FlattenOdts         [][]FlattenEntry
	OdtCount            uint16
	TotalEntries        uint16
	TotalLength         uint16
	HeaderNames         []string
}

// NewDaqList creates a DaqList from its unoptimized measurement list; call
// SetMeasurementsOpt once bin-packing has been performed to populate the
// decoder-facing fields.
func NewDaqList(name string, eventNum uint16, stim, enableTimestamps bool, measurements []McObject, priority, prescaler uint8) DaqList {
	return DaqList{
		Name:             name,
		EventNum:         eventNum,
		Stim:             stim,
		EnableTimestamps: enableTimestamps,
		Priority:         priority,
		Prescaler:        prescaler,
		Measurements:     measurements,
	}
}

// SetMeasurementsOpt installs the bin-packed ODT layout (e.g. from
// PackBins) and derives OdtCount, TotalEntries, TotalLength, HeaderNames,
// and FlattenOdts from it.
func (d *DaqList) SetMeasurementsOpt(bins []Bin) {
	d.MeasurementsOpt = bins
	d.HeaderNames = nil
	d.FlattenOdts = nil

	var totalEntries, totalLength uint16

	for _, bin := range bins {
		var flat []FlattenEntry
		for _, obj := range bin.Entries {
			components := obj.Components
			if len(components) == 0 {
				components = []McObject{obj}
			}
			for _, c := range components {
				d.HeaderNames = append(d.HeaderNames, c.Name)
				flat = append(flat, FlattenEntry{
					Name:      c.Name,
					Address:   c.Address,
					Ext:       c.Ext,
					Size:      c.Length,
					TypeIndex: c.TypeIndex,
				})
				totalEntries++
				totalLength += c.Length
			}
		}
		d.FlattenOdts = append(d.FlattenOdts, flat)
	}

	d.OdtCount = uint16(len(bins))
	d.TotalEntries = totalEntries
	d.TotalLength = totalLength
}
