package program

import (
	"fmt"

	"rvasm/pkg/symtab"
)

// SectionName identifies one of the fixed memory regions.
type SectionName int

const (
	Text SectionName = iota
	ROData
	Data
	BSS
)

// Order is the fixed layout and emission order of sections
var Order = []SectionName{Text, ROData, Data, BSS}

// String returns the directive spelling of the section name
func (s SectionName) String() string {
	switch s {
	case Text:
		return ".text"
	case ROData:
		return ".rodata"
	case Data:
		return ".data"
	case BSS:
		return ".bss"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// ParseSection maps a directive such as ".data" to its section
func ParseSection(directive string) (SectionName, bool) {
	for _, s := range Order {
		if s.String() == directive {
			return s, true
		}
	}
	return 0, false
}

// Section is one memory region with its ordered records.
type Section struct {
	Name    SectionName
	Base    uint32   // absolute base address, fixed by layout
	Size    uint32   // running offset during pass 1, final size afterwards
	Records []Record // records in source order
}

// Empty reports whether the section occupies no bytes
func (s *Section) Empty() bool {
	return s.Size == 0
}

// End returns the first address past the section, which is 1<<32 for a section that reaches
// the top of memory
func (s *Section) End() uint64 {
	return uint64(s.Base) + uint64(s.Size)
}

// Program is the parsed source: the sections, every record in file order, and the symbol table.
type Program struct {
	Sections map[SectionName]*Section
	Records  []Record // all records in file order across sections
	Symbols  *symtab.Table
}

// New creates an empty program with all sections present
func New() *Program {
	p := &Program{
		Sections: make(map[SectionName]*Section, len(Order)),
		Symbols:  symtab.New(),
	}
	for _, name := range Order {
		p.Sections[name] = &Section{Name: name}
	}
	return p
}

// Section returns the section with the given name
func (p *Program) Section(name SectionName) *Section {
	return p.Sections[name]
}

// Append adds a record to its section and to the file-order list
func (p *Program) Append(r Record) {
	sec := p.Sections[r.Header().Section]
	sec.Records = append(sec.Records, r)
	p.Records = append(p.Records, r)
}

// Instructions returns every instruction record in file order
func (p *Program) Instructions() []*Instruction {
	var out []*Instruction
	for _, r := range p.Records {
		if in, ok := r.(*Instruction); ok {
			out = append(out, in)
		}
	}
	return out
}
