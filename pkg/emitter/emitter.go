package emitter

import (
	"fmt"
	"io"
	"strings"

	"rvasm/pkg/image"
)

// Format serializes a memory image.
type Format interface {
	Emit(w io.Writer, img *image.Image) error
	Name() string
}

// BSSMode selects whether reservation-only segments are written out.
type BSSMode int

const (
	BSSOmit BSSMode = iota // reservations are not part of the output
	BSSFill                // reservations are written as zero bytes
)

func (m BSSMode) String() string {
	if m == BSSFill {
		return "fill"
	}
	return "omit"
}

// ParseBSSMode maps "fill" or "omit" to a BSSMode
func ParseBSSMode(s string) (BSSMode, error) {
	switch strings.ToLower(s) {
	case "omit", "":
		return BSSOmit, nil
	case "fill":
		return BSSFill, nil
	}
	return BSSOmit, fmt.Errorf("%w %q (want fill or omit)", ErrUnknownBSSMode, s)
}

// Config selects the output format and the .bss policy.
type Config struct {
	Format string  // "bin" or "hex"
	BSS    BSSMode // default BSSOmit
}

// New returns the Format named by cfg
func New(cfg Config) (Format, error) {
	switch strings.ToLower(cfg.Format) {
	case "bin", "":
		return &Binary{BSS: cfg.BSS}, nil
	case "hex":
		return &Hex{BSS: cfg.BSS}, nil
	}
	return nil, fmt.Errorf("%w %q (want bin or hex)", ErrUnknownFormat, cfg.Format)
}

// Emit writes img to w in the configured format
func Emit(w io.Writer, img *image.Image, cfg Config) error {
	f, err := New(cfg)
	if err != nil {
		return err
	}
	return f.Emit(w, img)
}

// run is a contiguous stretch of output starting at a word boundary.
type run struct {
	address uint32
	data    []byte
}

// selected reports whether a segment takes part in the output under mode
func selected(mode BSSMode) func(image.Segment) bool {
	return func(seg image.Segment) bool {
		return !seg.Reserved || mode == BSSFill
	}
}

// bytesOf returns the output bytes of a segment, zeros for a reservation
func bytesOf(seg image.Segment) []byte {
	if seg.Reserved {
		return make([]byte, seg.Size)
	}
	return seg.Data
}
