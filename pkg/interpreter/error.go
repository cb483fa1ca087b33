package interpreter

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented     = errors.New("interpreter step function not linked")
	ErrMaxStepsExceeded   = errors.New("maximum steps exceeded")
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrMemoryFault        = errors.New("memory access out of range")
	ErrMisalignedFetch    = errors.New("misaligned instruction fetch")
)

// Fault is a trap raised while executing an image.
type Fault struct {
	Kind error
	PC   uint32
	Addr uint32 // faulting address, or the instruction word for ErrIllegalInstruction
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc %#08x: %v (%#08x)", f.PC, f.Kind, f.Addr)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}
