package encoder

import (
	"errors"
	"fmt"
)

var (
	ErrImmediateOutOfRange = errors.New("immediate out of range")
	ErrOffsetOutOfRange    = errors.New("offset out of range")
	ErrMisalignedOffset    = errors.New("misaligned offset")
	ErrUnsupportedMnemonic = errors.New("unsupported mnemonic")

	// ErrNotLaidOut is returned when pass 2 runs before pass 1 froze the symbol table
	ErrNotLaidOut = errors.New("program has not been laid out")
)

// Error is an EncodeError raised by pass 2.
type Error struct {
	Kind     error
	Mnemonic string
	Value    int64 // the rejected immediate or offset
	Min, Max int64 // accepted range, for range errors
	Line     int
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrImmediateOutOfRange), errors.Is(e.Kind, ErrOffsetOutOfRange):
		return fmt.Sprintf("line %d: encode error: %s: %v: %d not in [%d, %d]", e.Line, e.Mnemonic, e.Kind, e.Value, e.Min, e.Max)
	case errors.Is(e.Kind, ErrMisalignedOffset):
		return fmt.Sprintf("line %d: encode error: %s: %v: %d is not a multiple of 2", e.Line, e.Mnemonic, e.Kind, e.Value)
	default:
		return fmt.Sprintf("line %d: encode error: %v %q", e.Line, e.Kind, e.Mnemonic)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}
