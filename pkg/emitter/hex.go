package emitter

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"rvasm/pkg/image"
)

// Hex writes the ASCII word format read by $readmemh: an @ line holding the word address of each
// contiguous run, then one eight-digit upper-case word per line.
type Hex struct {
	BSS BSSMode
}

func (h *Hex) Name() string { return "hex" }

func (h *Hex) Emit(w io.Writer, img *image.Image) error {
	bw := bufio.NewWriter(w)

	for _, r := range h.runs(img) {
		if _, err := fmt.Fprintf(bw, "@%08X\n", r.address/4); err != nil {
			return err
		}
		for i := 0; i < len(r.data); i += 4 {
			var word uint32
			for b := 0; b < 4 && i+b < len(r.data); b++ {
				word |= uint32(r.data[i+b]) << (8 * b)
			}
			if _, err := fmt.Fprintf(bw, "%08X\n", word); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// runs merges the selected segments into word-aligned runs. A segment starting at the word
// following the previous segment's last (padded) word continues that run.
func (h *Hex) runs(img *image.Image) []run {
	keep := selected(h.BSS)

	var segs []image.Segment
	for _, seg := range img.Segments {
		if keep(seg) {
			segs = append(segs, seg)
		}
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Address < segs[j].Address })

	var runs []run
	for _, seg := range segs {
		start := seg.Address &^ 3
		data := append(make([]byte, seg.Address-start), bytesOf(seg)...)

		if n := len(runs); n > 0 {
			last := &runs[n-1]
			end := uint64(last.address) + uint64(len(last.data))
			if padded := (end + 3) &^ 3; padded == uint64(start) {
				last.data = append(last.data, make([]byte, padded-end)...)
				last.data = append(last.data, data...)
				continue
			}
		}
		runs = append(runs, run{address: start, data: data})
	}

	return runs
}
