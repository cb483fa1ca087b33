package decoder

import (
	"errors"
	"fmt"

	"rvasm/pkg/isa"
	"rvasm/pkg/program"
)

// ErrUnknownInstruction is returned for words outside RV32I
var ErrUnknownInstruction = errors.New("unknown instruction")

// Error reports an undecodable word.
type Error struct {
	Word uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode error: %v %#08x", ErrUnknownInstruction, e.Word)
}

func (e *Error) Unwrap() error {
	return ErrUnknownInstruction
}

var table = isa.All()

// Decode turns a machine word back into an instruction record with canonical operands. Branch
// and jump targets come back as PC-relative immediates.
func Decode(word uint32) (*program.Instruction, error) {
	in, ok := match(word)
	if !ok {
		return nil, &Error{Word: word}
	}

	out := &program.Instruction{Mnemonic: in.Mnemonic}
	reg := program.Reg

	switch in.Category {
	case isa.CategoryNone:

	case isa.CategoryR:
		out.Operands = []program.Operand{reg(rd(word)), reg(rs1(word)), reg(rs2(word))}

	case isa.CategoryArith, isa.CategoryJumpReg:
		imm := immI(word)
		if in.Shift {
			imm = int64(rs2(word))
		}
		out.Operands = []program.Operand{reg(rd(word)), reg(rs1(word)), program.Imm(imm)}

	case isa.CategoryLoad:
		out.Operands = []program.Operand{reg(rd(word)), program.Mem(rs1(word), immI(word))}

	case isa.CategoryStore:
		out.Operands = []program.Operand{reg(rs2(word)), program.Mem(rs1(word), immS(word))}

	case isa.CategoryBranch:
		out.Operands = []program.Operand{reg(rs1(word)), reg(rs2(word)), program.Imm(immB(word))}

	case isa.CategoryUpper:
		out.Operands = []program.Operand{reg(rd(word)), program.Imm(immU(word))}

	case isa.CategoryJump:
		out.Operands = []program.Operand{reg(rd(word)), program.Imm(immJ(word))}

	case isa.CategoryCSR:
		src := reg(rs1(word))
		if in.ZImm {
			src = program.Imm(int64(rs1(word)))
		}
		out.Operands = []program.Operand{reg(rd(word)), program.Imm(int64(word >> 20)), src}
	}

	return out, nil
}

// Disassemble returns the canonical text of a word, or a .word directive when it does not decode
func Disassemble(word uint32) string {
	in, err := Decode(word)
	if err != nil {
		return fmt.Sprintf(".word %#08x", word)
	}
	return in.String()
}

// match finds the table row whose fixed fields agree with the word
func match(word uint32) (isa.Instruction, bool) {
	for _, in := range table {
		if opcode(word) != in.Opcode {
			continue
		}

		switch {
		case in.Category == isa.CategoryNone:
			if word == in.Word {
				return in, true
			}
		case in.Format == isa.FormatU || in.Format == isa.FormatJ:
			return in, true
		case funct3(word) != in.Funct3:
		case in.Format == isa.FormatR || in.Shift:
			if funct7(word) == in.Funct7 {
				return in, true
			}
		default:
			return in, true
		}
	}
	return isa.Instruction{}, false
}
