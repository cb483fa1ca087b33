package layout

import (
	"fmt"

	"rvasm/pkg/program"
	"rvasm/pkg/symtab"

	"github.com/charmbracelet/log"
)

// DefaultTextBase is the reset program counter of the target core
const DefaultTextBase = 0x4000

// sectionAlign is the minimum alignment of every section base
const sectionAlign = 4

// Config fixes where sections are placed. Sections without an explicit base follow the previous
// non-empty section.
type Config struct {
	TextBase uint32
	Bases    map[program.SectionName]uint32 // explicit bases for .rodata, .data and .bss
}

// DefaultConfig places .text at DefaultTextBase and packs the other sections after it
func DefaultConfig() Config {
	return Config{TextBase: DefaultTextBase}
}

// Build runs pass 1: it assigns an offset to every record in file order, defines every label,
// places the sections, computes absolute addresses and freezes the symbol table.
func Build(prog *program.Program, cfg Config) error {
	if err := assignOffsets(prog); err != nil {
		return err
	}

	if err := placeSections(prog, cfg); err != nil {
		return err
	}

	bases := make(map[string]uint32, len(program.Order))
	for _, name := range program.Order {
		bases[name.String()] = prog.Section(name).Base
	}

	for _, r := range prog.Records {
		hdr := r.Header()
		hdr.Address = prog.Section(hdr.Section).Base + hdr.Offset
		hdr.Placed = true
	}

	if err := prog.Symbols.Relocate(bases); err != nil {
		return err
	}
	prog.Symbols.Freeze()

	log.Debug("Pass 1 complete", "symbols", prog.Symbols.Len())

	return nil
}

// assignOffsets walks the records in file order advancing each section's running offset
func assignOffsets(prog *program.Program) error {
	for _, name := range program.Order {
		prog.Section(name).Size = 0
	}

	for _, r := range prog.Records {
		hdr := r.Header()
		sec := prog.Section(hdr.Section)

		if a, ok := r.(*program.Align); ok {
			a.Pad = padding(sec.Size, a.Boundary)
		}

		hdr.Offset = sec.Size

		if l, ok := r.(*program.Label); ok {
			err := prog.Symbols.Define(symtab.Symbol{
				Name:    l.Name,
				Section: sec.Name.String(),
				Offset:  hdr.Offset,
				Line:    hdr.Line,
			})
			if err != nil {
				return err
			}
		}

		size := uint64(sec.Size) + uint64(r.Width())
		if size > 1<<32 {
			return &Error{Kind: ErrOverflow, Section: sec.Name, Line: hdr.Line}
		}
		sec.Size = uint32(size)
	}

	return nil
}

// placeSections assigns base addresses in the fixed section order and rejects overlaps
func placeSections(prog *program.Program, cfg Config) error {
	if cfg.TextBase%maxAlignment(prog.Section(program.Text)) != 0 {
		return &Error{Kind: ErrMisalignedBase, Section: program.Text, Base: cfg.TextBase}
	}

	next := uint64(cfg.TextBase)
	for _, name := range program.Order {
		sec := prog.Section(name)
		align := uint64(maxAlignment(sec))

		switch base, explicit := cfg.Bases[name]; {
		case name == program.Text:
			sec.Base = cfg.TextBase
		case explicit:
			if uint64(base)%align != 0 {
				return &Error{Kind: ErrMisalignedBase, Section: name, Base: base}
			}
			sec.Base = base
		default:
			aligned := (next + align - 1) &^ (align - 1)
			if aligned > 1<<32-1 {
				// Only a section with no records may sit past the top of memory.
				if len(sec.Records) > 0 {
					return &Error{Kind: ErrOverflow, Section: name}
				}
				aligned = 0
			}
			sec.Base = uint32(aligned)
		}

		if sec.End() > 1<<32 {
			return &Error{Kind: ErrOverflow, Section: name}
		}
		if !sec.Empty() {
			next = sec.End()
		}

		log.Debug("Placed section", "section", name, "base", fmt.Sprintf("%#08x", sec.Base), "size", sec.Size)
	}

	for i, a := range program.Order {
		for _, b := range program.Order[i+1:] {
			sa, sb := prog.Section(a), prog.Section(b)
			if sa.Empty() || sb.Empty() {
				continue
			}
			if uint64(sa.Base) < sb.End() && uint64(sb.Base) < sa.End() {
				return &Error{Kind: ErrOverlap, Section: b, Other: a}
			}
		}
	}

	return nil
}

// maxAlignment is the largest alignment any record of the section asks for
func maxAlignment(sec *program.Section) uint32 {
	align := uint32(sectionAlign)
	for _, r := range sec.Records {
		if a, ok := r.(*program.Align); ok && a.Boundary > align {
			align = a.Boundary
		}
	}
	return align
}

// padding returns the bytes needed to move offset up to a multiple of boundary
func padding(offset, boundary uint32) uint32 {
	if boundary <= 1 {
		return 0
	}
	return (boundary - offset%boundary) % boundary
}
