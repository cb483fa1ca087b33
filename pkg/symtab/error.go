package symtab

import (
	"errors"
	"fmt"
)

var (
	ErrUndefined = errors.New("undefined symbol")
	ErrDuplicate = errors.New("duplicate symbol")
)

// Error is a SymbolError. Kind is ErrUndefined or ErrDuplicate.
type Error struct {
	Kind     error
	Name     string
	Line     int
	Previous int // line of the first definition, for duplicates
}

func (e *Error) Error() string {
	if errors.Is(e.Kind, ErrDuplicate) {
		return fmt.Sprintf("line %d: symbol error: %v %q (first defined on line %d)", e.Line, e.Kind, e.Name, e.Previous)
	}
	return fmt.Sprintf("line %d: symbol error: %v %q", e.Line, e.Kind, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
