package symtab

import (
	"errors"
	"sort"
)

// ErrFrozen is returned when the table is written after pass 1 has finished
var ErrFrozen = errors.New("symbol table is frozen")

// Symbol is a label bound to a section offset and, once laid out, an absolute address.
type Symbol struct {
	Name    string // case-sensitive
	Section string // section directive, e.g. ".text"
	Offset  uint32 // offset inside the section
	Address uint32 // absolute address, valid after Relocate
	Line    int    // defining source line
}

// Table is the global symbol table of one assembly run. It is written by pass 1 only and is
// read-only once frozen.
type Table struct {
	symbols map[string]*Symbol
	order   []string // definition order
	frozen  bool
}

// New creates an empty symbol table
func New() *Table {
	return &Table{
		symbols: make(map[string]*Symbol),
	}
}

// Define records a new symbol; a name may be defined only once
func (t *Table) Define(sym Symbol) error {
	if t.frozen {
		return ErrFrozen
	}
	if prev, ok := t.symbols[sym.Name]; ok {
		return &Error{Kind: ErrDuplicate, Name: sym.Name, Line: sym.Line, Previous: prev.Line}
	}

	s := sym
	t.symbols[sym.Name] = &s
	t.order = append(t.order, sym.Name)

	return nil
}

// Relocate computes absolute addresses from per-section base addresses
func (t *Table) Relocate(bases map[string]uint32) error {
	if t.frozen {
		return ErrFrozen
	}
	for _, s := range t.symbols {
		s.Address = bases[s.Section] + s.Offset
	}
	return nil
}

// Freeze makes the table read-only
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table has been frozen
func (t *Table) Frozen() bool {
	return t.frozen
}

// Lookup returns the symbol with the given name
func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.symbols[name]
	if !ok {
		return Symbol{}, false
	}
	return *s, true
}

// Resolve returns the symbol for a reference made on the given source line, or an Undefined error
func (t *Table) Resolve(name string, line int) (Symbol, error) {
	s, ok := t.Lookup(name)
	if !ok {
		return Symbol{}, &Error{Kind: ErrUndefined, Name: name, Line: line}
	}
	return s, nil
}

// Len returns the number of defined symbols
func (t *Table) Len() int {
	return len(t.symbols)
}

// All returns the symbols ordered by address, then by definition order
func (t *Table) All() []Symbol {
	out := make([]Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.symbols[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Address < out[j].Address
	})
	return out
}
