package encoder

import (
	"encoding/binary"
	"fmt"

	"rvasm/pkg/image"
	"rvasm/pkg/isa"
	"rvasm/pkg/program"

	"github.com/charmbracelet/log"
)

// Accepted operand ranges
const (
	minImm12, maxImm12 = -2048, 2047
	minUpper, maxUpper = -524288, 1048575 // signed or unsigned 20-bit
	maxShamt           = 31
	maxUImm5           = 31
	branchBits         = 13
	jumpBits           = 21
)

var dataDirectives = map[int]string{1: ".byte", 2: ".half", 4: ".word"}

// Encoder runs pass 2 over a laid-out program.
type Encoder struct {
	prog *program.Program
}

// NewEncoder creates a new Encoder instance
func NewEncoder(prog *program.Program) *Encoder {
	return &Encoder{prog: prog}
}

// Encode is shorthand for NewEncoder(prog).Encode()
func Encode(prog *program.Program) (*image.Image, error) {
	return NewEncoder(prog).Encode()
}

// Encode converts every record into bytes and returns the memory image. The program must have
// been through pass 1.
func (e *Encoder) Encode() (*image.Image, error) {
	if !e.prog.Symbols.Frozen() {
		return nil, ErrNotLaidOut
	}

	bufs := make(map[program.SectionName][]byte, len(program.Order))
	listings := make(map[program.SectionName][]image.Listing, len(program.Order))
	for _, name := range program.Order {
		if sec := e.prog.Section(name); !sec.Empty() && name != program.BSS {
			bufs[name] = make([]byte, sec.Size)
		}
	}

	// File order, so the first error reported is the first one in the source.
	for _, r := range e.prog.Records {
		hdr := r.Header()
		if hdr.Section == program.BSS {
			continue
		}
		buf := bufs[hdr.Section]
		off := hdr.Offset

		switch rec := r.(type) {
		case *program.Instruction:
			word, err := e.instruction(rec)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint32(buf[off:], word)
			listings[hdr.Section] = append(listings[hdr.Section], image.Listing{
				Address: hdr.Address,
				Word:    word,
				Line:    hdr.Line,
				Source:  rec.String(),
			})

		case *program.DataRecord:
			copy(buf[off:], rec.Bytes)
			for _, f := range rec.Fields {
				if err := e.field(buf[off+f.Offset:], rec, f); err != nil {
					return nil, err
				}
			}
		}
	}

	img := &image.Image{Entry: e.prog.Section(program.Text).Base}
	for _, name := range program.Order {
		sec := e.prog.Section(name)
		if sec.Empty() {
			continue
		}

		if name == program.BSS {
			img.Add(image.Segment{Section: name, Address: sec.Base, Size: sec.Size, Reserved: true})
			continue
		}

		img.Add(image.Segment{Section: name, Address: sec.Base, Data: bufs[name], Size: sec.Size})
		img.Listing = append(img.Listing, listings[name]...)
		log.Debug("Encoded section", "section", name, "bytes", sec.Size)
	}

	return img, nil
}

// instruction encodes one instruction record into a 32-bit word
func (e *Encoder) instruction(in *program.Instruction) (uint32, error) {
	def, ok := isa.Lookup(in.Mnemonic)
	if !ok {
		return 0, &Error{Kind: ErrUnsupportedMnemonic, Mnemonic: in.Mnemonic, Line: in.Hdr.Line}
	}

	ops := in.Operands
	if len(ops) != operandCount(def.Category) {
		return 0, &Error{Kind: ErrUnsupportedMnemonic, Mnemonic: in.String(), Line: in.Hdr.Line}
	}

	reg := func(i int) uint32 { return uint32(ops[i].Reg) & 0x1F }

	switch def.Category {
	case isa.CategoryNone:
		return def.Word, nil

	case isa.CategoryR:
		return encodeR(def.Opcode, reg(0), def.Funct3, reg(1), reg(2), def.Funct7), nil

	case isa.CategoryArith:
		if def.Shift {
			shamt, err := e.check(in, ops[2].Imm, 0, maxShamt)
			if err != nil {
				return 0, err
			}
			return encodeI(def.Opcode, reg(0), def.Funct3, reg(1), int32(def.Funct7<<5)|shamt), nil
		}
		imm, err := e.check(in, ops[2].Imm, minImm12, maxImm12)
		if err != nil {
			return 0, err
		}
		return encodeI(def.Opcode, reg(0), def.Funct3, reg(1), imm), nil

	case isa.CategoryLoad:
		imm, err := e.check(in, ops[1].Imm, minImm12, maxImm12)
		if err != nil {
			return 0, err
		}
		return encodeI(def.Opcode, reg(0), def.Funct3, reg(1), imm), nil

	case isa.CategoryStore:
		imm, err := e.check(in, ops[1].Imm, minImm12, maxImm12)
		if err != nil {
			return 0, err
		}
		return encodeS(def.Opcode, def.Funct3, reg(1), reg(0), imm), nil

	case isa.CategoryBranch:
		off, err := e.offset(in, ops[2], branchBits)
		if err != nil {
			return 0, err
		}
		return encodeB(def.Opcode, def.Funct3, reg(0), reg(1), off), nil

	case isa.CategoryUpper:
		imm, err := e.check(in, ops[1].Imm, minUpper, maxUpper)
		if err != nil {
			return 0, err
		}
		return encodeU(def.Opcode, reg(0), imm), nil

	case isa.CategoryJump:
		off, err := e.offset(in, ops[1], jumpBits)
		if err != nil {
			return 0, err
		}
		return encodeJ(def.Opcode, reg(0), off), nil

	case isa.CategoryJumpReg:
		imm, err := e.check(in, ops[2].Imm, minImm12, maxImm12)
		if err != nil {
			return 0, err
		}
		return encodeI(def.Opcode, reg(0), def.Funct3, reg(1), imm), nil

	case isa.CategoryCSR:
		csr, err := e.check(in, ops[1].Imm, 0, isa.MaxCSR)
		if err != nil {
			return 0, err
		}
		src := reg(2)
		if def.ZImm {
			uimm, err := e.check(in, ops[2].Imm, 0, maxUImm5)
			if err != nil {
				return 0, err
			}
			src = uint32(uimm)
		}
		return encodeI(def.Opcode, reg(0), def.Funct3, src, csr), nil
	}

	return 0, &Error{Kind: ErrUnsupportedMnemonic, Mnemonic: in.Mnemonic, Line: in.Hdr.Line}
}

// offset resolves a branch or jump target to a PC-relative offset of the given signed width
func (e *Encoder) offset(in *program.Instruction, target program.Operand, width uint) (int32, error) {
	off := target.Imm
	if target.Kind == program.OperandLabel {
		sym, err := e.prog.Symbols.Resolve(target.Label, in.Hdr.Line)
		if err != nil {
			return 0, err
		}
		off = int64(sym.Address) - int64(in.Hdr.Address)
	}

	min, max := -int64(1)<<(width-1), int64(1)<<(width-1)-1
	if off < min || off > max {
		return 0, &Error{Kind: ErrOffsetOutOfRange, Mnemonic: in.Mnemonic, Value: off, Min: min, Max: max, Line: in.Hdr.Line}
	}
	if off%2 != 0 {
		return 0, &Error{Kind: ErrMisalignedOffset, Mnemonic: in.Mnemonic, Value: off, Line: in.Hdr.Line}
	}

	return int32(off), nil
}

// check range-checks an immediate operand
func (e *Encoder) check(in *program.Instruction, v, min, max int64) (int32, error) {
	if v < min || v > max {
		return 0, &Error{Kind: ErrImmediateOutOfRange, Mnemonic: in.Mnemonic, Value: v, Min: min, Max: max, Line: in.Hdr.Line}
	}
	return int32(v), nil
}

// field writes one .byte/.half/.word value little-endian into dst
func (e *Encoder) field(dst []byte, d *program.DataRecord, f program.Field) error {
	v := f.Value
	if f.Label != "" {
		sym, err := e.prog.Symbols.Resolve(f.Label, d.Hdr.Line)
		if err != nil {
			return err
		}
		v = int64(sym.Address)
	}

	bits := uint(8 * f.Width)
	min, max := -int64(1)<<(bits-1), int64(1)<<bits-1
	if v < min || v > max {
		name, ok := dataDirectives[f.Width]
		if !ok {
			name = fmt.Sprintf("%d-byte value", f.Width)
		}
		return &Error{Kind: ErrImmediateOutOfRange, Mnemonic: name, Value: v, Min: min, Max: max, Line: d.Hdr.Line}
	}

	for i := 0; i < f.Width; i++ {
		dst[i] = byte(uint64(v) >> (8 * i))
	}
	return nil
}

func operandCount(c isa.Category) int {
	switch c {
	case isa.CategoryNone:
		return 0
	case isa.CategoryLoad, isa.CategoryStore, isa.CategoryUpper, isa.CategoryJump:
		return 2
	default:
		return 3
	}
}
