package program

import (
	"fmt"
	"strings"

	"rvasm/pkg/isa"
)

type OperandKind int

const (
	OperandRegister  OperandKind = iota // register index 0..31
	OperandImmediate                    // integer
	OperandLabel                        // label reference
	OperandMemory                       // displacement(base)
)

// Operand is a tagged variant; only the fields of its Kind are meaningful.
type Operand struct {
	Kind  OperandKind
	Reg   int    // register index, or the base register of a memory operand
	Imm   int64  // immediate value, or the displacement of a memory operand
	Label string // referenced label name
}

func Reg(idx int) Operand           { return Operand{Kind: OperandRegister, Reg: idx} }
func Imm(v int64) Operand           { return Operand{Kind: OperandImmediate, Imm: v} }
func LabelRef(name string) Operand  { return Operand{Kind: OperandLabel, Label: name} }
func Mem(base int, d int64) Operand { return Operand{Kind: OperandMemory, Reg: base, Imm: d} }

// String renders the operand in canonical assembler syntax
func (o Operand) String() string {
	return o.Format(isa.RegisterName)
}

// Format renders the operand with registers spelled by regName
func (o Operand) Format(regName func(int) string) string {
	switch o.Kind {
	case OperandRegister:
		return regName(o.Reg)
	case OperandImmediate:
		return fmt.Sprintf("%d", o.Imm)
	case OperandLabel:
		return o.Label
	case OperandMemory:
		return fmt.Sprintf("%d(%s)", o.Imm, regName(o.Reg))
	default:
		return "?"
	}
}

// Header holds what every record shares: where it came from and where it lands.
type Header struct {
	Section SectionName
	Line    int
	Offset  uint32 // offset in the section, set by pass 1
	Address uint32 // absolute address, set by pass 1
	Placed  bool   // true once pass 1 has assigned Offset and Address
}

// Record is an entry of a section: an instruction, data, a label or an alignment.
type Record interface {
	Header() *Header
	Width() uint32
}

// Instruction is an InstructionRecord. Mnemonic is canonical lower case.
type Instruction struct {
	Hdr      Header
	Mnemonic string
	Operands []Operand
}

func (i *Instruction) Header() *Header { return &i.Hdr }
func (i *Instruction) Width() uint32   { return 4 }

// String renders the instruction in canonical syntax
func (i *Instruction) String() string {
	return i.Format(isa.RegisterName)
}

// Format renders the instruction with registers spelled by regName, e.g. isa.ABIName
func (i *Instruction) Format(regName func(int) string) string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}
	ops := make([]string, len(i.Operands))
	for n, o := range i.Operands {
		ops[n] = o.Format(regName)
	}
	return i.Mnemonic + " " + strings.Join(ops, ", ")
}

// Field is a .byte/.half/.word value written into a data record during pass 2, either an
// integer or the absolute address of Label.
type Field struct {
	Offset uint32 // byte offset inside the record
	Width  int    // 1, 2 or 4 bytes
	Value  int64
	Label  string
}

// DataRecord holds initialized bytes. A record with Reserve > 0 and no bytes only reserves
// space, which reads as zeros outside .bss.
type DataRecord struct {
	Hdr     Header
	Bytes   []byte
	Fields  []Field
	Reserve uint32
}

func (d *DataRecord) Header() *Header { return &d.Hdr }

func (d *DataRecord) Width() uint32 {
	if d.Reserve > 0 {
		return d.Reserve
	}
	return uint32(len(d.Bytes))
}

// Label marks a label definition; it has no width.
type Label struct {
	Hdr  Header
	Name string
}

func (l *Label) Header() *Header { return &l.Hdr }
func (l *Label) Width() uint32   { return 0 }

// Align pads its section with zero bytes up to Boundary. Pad is computed by pass 1.
type Align struct {
	Hdr      Header
	Boundary uint32
	Pad      uint32
}

func (a *Align) Header() *Header { return &a.Hdr }
func (a *Align) Width() uint32   { return a.Pad }
