package image

import (
	"encoding/binary"

	"rvasm/pkg/program"
)

// Segment is the encoded content of one non-empty section.
type Segment struct {
	Section  program.SectionName
	Address  uint32 // absolute address of the first byte
	Data     []byte // encoded bytes, nil for a reservation-only segment
	Size     uint32 // length in bytes, equal to len(Data) unless Reserved
	Reserved bool   // .bss: occupies memory but carries no initialized bytes
}

// End returns the first address past the segment
func (s Segment) End() uint64 {
	return uint64(s.Address) + uint64(s.Size)
}

// Listing is one encoded instruction and the source record it came from.
type Listing struct {
	Address uint32
	Word    uint32
	Line    int
	Source  string // canonical text of the instruction record
}

// Image is the output of pass 2: segments in fixed section order plus the instruction listing.
type Image struct {
	Segments []Segment
	Listing  []Listing
	Entry    uint32 // text base
}

// Add appends a segment; empty segments are dropped
func (img *Image) Add(seg Segment) {
	if seg.Size == 0 {
		return
	}
	img.Segments = append(img.Segments, seg)
}

// Bounds returns the lowest start address and highest end address over the segments selected by
// keep. ok is false when no segment is selected.
func (img *Image) Bounds(keep func(Segment) bool) (lo, hi uint64, ok bool) {
	for _, seg := range img.Segments {
		if keep != nil && !keep(seg) {
			continue
		}
		start, end := uint64(seg.Address), uint64(seg.Address)+uint64(seg.Size)
		if !ok || start < lo {
			lo = start
		}
		if !ok || end > hi {
			hi = end
		}
		ok = true
	}
	return lo, hi, ok
}

// Word reads the little-endian word at addr from the initialized segments
func (img *Image) Word(addr uint32) (uint32, bool) {
	for _, seg := range img.Segments {
		if seg.Reserved || addr < seg.Address || uint64(addr)+4 > seg.End() {
			continue
		}
		off := addr - seg.Address
		return binary.LittleEndian.Uint32(seg.Data[off : off+4]), true
	}
	return 0, false
}
