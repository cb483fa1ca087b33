package emitter

import (
	"io"

	"rvasm/pkg/image"

	"github.com/charmbracelet/log"
)

// Binary writes raw little-endian bytes from the lowest segment address to the highest end.
// Gaps between segments are zero-filled.
type Binary struct {
	BSS BSSMode
}

func (b *Binary) Name() string { return "bin" }

func (b *Binary) Emit(w io.Writer, img *image.Image) error {
	keep := selected(b.BSS)
	lo, hi, ok := img.Bounds(keep)
	if !ok {
		return nil
	}

	out := make([]byte, hi-lo)
	for _, seg := range img.Segments {
		if !keep(seg) {
			continue
		}
		copy(out[uint64(seg.Address)-lo:], bytesOf(seg))
	}

	log.Debug("Emitting binary", "start", lo, "bytes", len(out))

	_, err := w.Write(out)
	return err
}
