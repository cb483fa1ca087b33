package layout

import (
	"errors"
	"fmt"

	"rvasm/pkg/program"
)

var (
	ErrOverlap        = errors.New("sections overlap")
	ErrOverflow       = errors.New("section exceeds the 32-bit address space")
	ErrMisalignedBase = errors.New("misaligned section base")
)

// Error reports a section placement problem.
type Error struct {
	Kind    error
	Section program.SectionName
	Other   program.SectionName // the section overlapped, for ErrOverlap
	Base    uint32
	Line    int
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrOverlap):
		return fmt.Sprintf("layout error: %s overlaps %s", e.Section, e.Other)
	case errors.Is(e.Kind, ErrMisalignedBase):
		return fmt.Sprintf("layout error: %v %#x for %s", e.Kind, e.Base, e.Section)
	case e.Line > 0:
		return fmt.Sprintf("line %d: layout error: %s: %v", e.Line, e.Section, e.Kind)
	default:
		return fmt.Sprintf("layout error: %s: %v", e.Section, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}
