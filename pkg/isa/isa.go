package isa

import (
	"strings"
)

// Format is one of the RV32I instruction encoding layouts.
type Format int

const (
	FormatR Format = iota
	FormatI
	FormatS
	FormatB
	FormatU
	FormatJ
)

// String returns the single-letter name of the format
func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	default:
		return "?"
	}
}

// Category groups instructions by the operand shape the assembler accepts for them.
type Category int

const (
	CategoryR       Category = iota // reg, reg, reg
	CategoryArith                   // reg, reg, imm12
	CategoryLoad                    // reg, imm12(reg)
	CategoryStore                   // reg, imm12(reg)
	CategoryBranch                  // reg, reg, label-or-imm
	CategoryUpper                   // reg, imm20
	CategoryJump                    // reg, label-or-imm
	CategoryJumpReg                 // reg, reg, imm12
	CategoryCSR                     // reg, csr, reg-or-imm
	CategoryNone                    // no operands
)

// Shape describes the operand syntax of a category, used in diagnostics
func (c Category) Shape() string {
	switch c {
	case CategoryR:
		return "reg, reg, reg"
	case CategoryArith:
		return "reg, reg, imm12"
	case CategoryLoad, CategoryStore:
		return "reg, imm12(reg)"
	case CategoryBranch:
		return "reg, reg, label-or-imm"
	case CategoryUpper:
		return "reg, imm20"
	case CategoryJump:
		return "reg, label-or-imm"
	case CategoryJumpReg:
		return "reg, reg, imm12"
	case CategoryCSR:
		return "reg, csr, reg-or-imm"
	default:
		return "no operands"
	}
}

// Major opcodes
const (
	OpLoad    uint32 = 0b0000011
	OpMiscMem uint32 = 0b0001111
	OpImm     uint32 = 0b0010011
	OpAuipc   uint32 = 0b0010111
	OpStore   uint32 = 0b0100011
	OpReg     uint32 = 0b0110011
	OpLui     uint32 = 0b0110111
	OpBranch  uint32 = 0b1100011
	OpJalr    uint32 = 0b1100111
	OpJal     uint32 = 0b1101111
	OpSystem  uint32 = 0b1110011
)

// Instruction is one row of the RV32I description.
type Instruction struct {
	Mnemonic string   // lower-case mnemonic
	Category Category // operand shape
	Format   Format   // bit layout
	Opcode   uint32   // bits 6:0
	Funct3   uint32   // bits 14:12
	Funct7   uint32   // bits 31:25 (R-type and shift-immediates)
	Shift    bool     // immediate is a 5-bit shift amount, funct7 occupies imm[11:5]
	ZImm     bool     // CSR form taking a 5-bit unsigned immediate instead of rs1
	Word     uint32   // complete encoding for operand-less instructions
}

// instructions is the only description of the base ISA; the lexer, parser, encoder and decoder
// all derive their lookups from it.
var instructions = []Instruction{
	{Mnemonic: "lui", Category: CategoryUpper, Format: FormatU, Opcode: OpLui},
	{Mnemonic: "auipc", Category: CategoryUpper, Format: FormatU, Opcode: OpAuipc},

	{Mnemonic: "jal", Category: CategoryJump, Format: FormatJ, Opcode: OpJal},
	{Mnemonic: "jalr", Category: CategoryJumpReg, Format: FormatI, Opcode: OpJalr, Funct3: 0b000},

	{Mnemonic: "beq", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b000},
	{Mnemonic: "bne", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b001},
	{Mnemonic: "blt", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b100},
	{Mnemonic: "bge", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b101},
	{Mnemonic: "bltu", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b110},
	{Mnemonic: "bgeu", Category: CategoryBranch, Format: FormatB, Opcode: OpBranch, Funct3: 0b111},

	{Mnemonic: "lb", Category: CategoryLoad, Format: FormatI, Opcode: OpLoad, Funct3: 0b000},
	{Mnemonic: "lh", Category: CategoryLoad, Format: FormatI, Opcode: OpLoad, Funct3: 0b001},
	{Mnemonic: "lw", Category: CategoryLoad, Format: FormatI, Opcode: OpLoad, Funct3: 0b010},
	{Mnemonic: "lbu", Category: CategoryLoad, Format: FormatI, Opcode: OpLoad, Funct3: 0b100},
	{Mnemonic: "lhu", Category: CategoryLoad, Format: FormatI, Opcode: OpLoad, Funct3: 0b101},

	{Mnemonic: "sb", Category: CategoryStore, Format: FormatS, Opcode: OpStore, Funct3: 0b000},
	{Mnemonic: "sh", Category: CategoryStore, Format: FormatS, Opcode: OpStore, Funct3: 0b001},
	{Mnemonic: "sw", Category: CategoryStore, Format: FormatS, Opcode: OpStore, Funct3: 0b010},

	{Mnemonic: "addi", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b000},
	{Mnemonic: "slti", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b010},
	{Mnemonic: "sltiu", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b011},
	{Mnemonic: "xori", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b100},
	{Mnemonic: "ori", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b110},
	{Mnemonic: "andi", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b111},
	{Mnemonic: "slli", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b001, Funct7: 0b0000000, Shift: true},
	{Mnemonic: "srli", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b101, Funct7: 0b0000000, Shift: true},
	{Mnemonic: "srai", Category: CategoryArith, Format: FormatI, Opcode: OpImm, Funct3: 0b101, Funct7: 0b0100000, Shift: true},

	{Mnemonic: "add", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b000, Funct7: 0b0000000},
	{Mnemonic: "sub", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b000, Funct7: 0b0100000},
	{Mnemonic: "sll", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b001, Funct7: 0b0000000},
	{Mnemonic: "slt", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b010, Funct7: 0b0000000},
	{Mnemonic: "sltu", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b011, Funct7: 0b0000000},
	{Mnemonic: "xor", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b100, Funct7: 0b0000000},
	{Mnemonic: "srl", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b101, Funct7: 0b0000000},
	{Mnemonic: "sra", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b101, Funct7: 0b0100000},
	{Mnemonic: "or", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b110, Funct7: 0b0000000},
	{Mnemonic: "and", Category: CategoryR, Format: FormatR, Opcode: OpReg, Funct3: 0b111, Funct7: 0b0000000},

	{Mnemonic: "fence", Category: CategoryNone, Format: FormatI, Opcode: OpMiscMem, Funct3: 0b000, Word: 0x0FF0000F},
	{Mnemonic: "fencei", Category: CategoryNone, Format: FormatI, Opcode: OpMiscMem, Funct3: 0b001, Word: 0x0000100F},
	{Mnemonic: "ecall", Category: CategoryNone, Format: FormatI, Opcode: OpSystem, Funct3: 0b000, Word: 0x00000073},
	{Mnemonic: "ebreak", Category: CategoryNone, Format: FormatI, Opcode: OpSystem, Funct3: 0b000, Word: 0x00100073},

	{Mnemonic: "csrrw", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b001},
	{Mnemonic: "csrrs", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b010},
	{Mnemonic: "csrrc", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b011},
	{Mnemonic: "csrrwi", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b101, ZImm: true},
	{Mnemonic: "csrrsi", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b110, ZImm: true},
	{Mnemonic: "csrrci", Category: CategoryCSR, Format: FormatI, Opcode: OpSystem, Funct3: 0b111, ZImm: true},
}

// aliases are alternate spellings of base mnemonics
var aliases = map[string]string{
	"fence.i": "fencei",
}

// pseudos are single-line shorthands the parser expands into base instructions
var pseudos = map[string]bool{
	"nop":  true,
	"mv":   true,
	"li":   true,
	"j":    true,
	"jr":   true,
	"ret":  true,
	"beqz": true,
	"bnez": true,
	"csrr": true,
	"csrw": true,
}

var byMnemonic = func() map[string]Instruction {
	m := make(map[string]Instruction, len(instructions))
	for _, in := range instructions {
		m[in.Mnemonic] = in
	}
	return m
}()

// Canonical folds case and aliases into the mnemonic used by the instruction table
func Canonical(name string) string {
	name = strings.ToLower(name)
	if base, ok := aliases[name]; ok {
		return base
	}
	return name
}

// Lookup finds a base instruction by mnemonic, ignoring case
func Lookup(name string) (Instruction, bool) {
	in, ok := byMnemonic[Canonical(name)]
	return in, ok
}

// IsPseudo reports whether name is a pseudo-instruction, ignoring case
func IsPseudo(name string) bool {
	return pseudos[strings.ToLower(name)]
}

// IsMnemonic reports whether name is either a base or a pseudo-instruction
func IsMnemonic(name string) bool {
	if _, ok := Lookup(name); ok {
		return true
	}
	return IsPseudo(name)
}

// All returns a copy of the instruction table in declaration order
func All() []Instruction {
	return append([]Instruction(nil), instructions...)
}
