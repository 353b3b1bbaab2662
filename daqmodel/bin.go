package daqmodel

// Bin is a packing unit representing one ODT after bin-packing: a fixed
// byte capacity and the McObjects assigned to it.
type Bin struct {
	Size             uint16
	ResidualCapacity uint16
	Entries          []McObject
}

// NewBin creates an empty Bin of the given byte capacity.
func NewBin(size uint16) Bin {
	return Bin{Size: size, ResidualCapacity: size}
}

// Fits reports whether obj's length fits in the bin's residual capacity.
func (b Bin) Fits(obj McObject) bool {
	return obj.Length <= b.ResidualCapacity
}

// Append adds obj to the bin's entries and reduces residual capacity. The
// caller must have checked Fits first; Append does not itself validate.
func (b *Bin) Append(obj McObject) {
	b.Entries = append(b.Entries, obj)
	b.ResidualCapacity -= obj.Length
}

// Equal reports whether two Bins have the same Size and ResidualCapacity and
// hold the same entries in the same order.
func (b Bin) Equal(other Bin) bool {
	if b.Size != other.Size || b.ResidualCapacity != other.ResidualCapacity {
		return false
	}
	if len(b.Entries) != len(other.Entries) {
		return false
	}
	for i := range b.Entries {
		if !b.Entries[i].Equal(other.Entries[i]) {
			return false
		}
	}

	return true
}

// PackBins distributes objs across bins of the given capacity using a
// first-fit-decreasing strategy: objects are sorted largest-first, then
// each is placed in the first bin it fits, opening a new bin when none do.
//
// This mirrors the original recorder's ODT assembly strategy (bin.hpp):
// DaqList.MeasurementsOpt must already hold bin-packed ODTs satisfying
// sum(len(measurements_opt)) == odt_count, and first-fit-decreasing is a
// simple, deterministic way to produce that packing.
func PackBins(objs []McObject, capacity uint16) []Bin {
	sorted := make([]McObject, len(objs))
	copy(sorted, objs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Length > sorted[j-1].Length; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var bins []Bin
	for _, obj := range sorted {
		placed := false
		for i := range bins {
			if bins[i].Fits(obj) {
				bins[i].Append(obj)
				placed = true

				break
			}
		}
		if !placed {
			bin := NewBin(capacity)
			bin.Append(obj)
			bins = append(bins, bin)
		}
	}

	return bins
}
