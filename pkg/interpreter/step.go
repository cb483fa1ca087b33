package interpreter

import (
	"fmt"

	"rvasm/pkg/decoder"
	"rvasm/pkg/image"
	"rvasm/pkg/program"
)

// Exec runs img to completion with the default options
func Exec(img *image.Image) (*Interpreter, error) {
	it, err := NewInterpreter(img)
	if err != nil {
		return nil, err
	}
	return it, it.Run()
}

// coreStep fetches, decodes and executes one instruction.
// it returns (halted, error).
func coreStep(i *Interpreter) (bool, error) {
	pc := i.pc
	if pc%4 != 0 {
		return false, &Fault{Kind: ErrMisalignedFetch, PC: pc, Addr: pc}
	}

	word, ok := i.mem.Load(pc, 4)
	if !ok {
		return false, &Fault{Kind: ErrMemoryFault, PC: pc, Addr: pc}
	}

	in, err := decoder.Decode(word)
	if err != nil {
		return false, &Fault{Kind: ErrIllegalInstruction, PC: pc, Addr: word}
	}

	if i.trace != nil {
		fmt.Fprintf(i.trace, "%08x: %08x  %s\n", pc, word, in)
	}

	ops := in.Operands
	reg := func(n int) uint32 { return i.regs[ops[n].Reg] }
	imm := func(n int) uint32 { return uint32(ops[n].Imm) }
	set := func(v uint32) { i.SetReg(ops[0].Reg, v) }

	next := pc + 4

	switch in.Mnemonic {
	case "lui":
		set(imm(1) << 12)
	case "auipc":
		set(pc + imm(1)<<12)

	case "jal":
		set(next)
		next = pc + imm(1)
	case "jalr":
		target := (reg(1) + imm(2)) &^ 1
		set(next)
		next = target

	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		if branchTaken(in.Mnemonic, reg(0), reg(1)) {
			next = pc + imm(2)
		}

	case "lb", "lh", "lw", "lbu", "lhu":
		v, err := i.load(pc, in.Mnemonic, ops[1])
		if err != nil {
			return false, err
		}
		set(v)

	case "sb", "sh", "sw":
		if err := i.store(pc, in.Mnemonic, ops[1], reg(0)); err != nil {
			return false, err
		}

	case "addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai":
		set(alu(in.Mnemonic, reg(1), imm(2)))

	case "add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and":
		set(alu(in.Mnemonic, reg(1), reg(2)))

	case "fence", "fencei":

	case "ecall", "ebreak":
		i.halt = in.Mnemonic
		return true, nil

	case "csrrw", "csrrs", "csrrc", "csrrwi", "csrrsi", "csrrci":
		i.csr(in, ops)

	default:
		return false, &Fault{Kind: ErrIllegalInstruction, PC: pc, Addr: word}
	}

	i.pc = next
	return false, nil
}

func branchTaken(mnemonic string, a, b uint32) bool {
	switch mnemonic {
	case "beq":
		return a == b
	case "bne":
		return a != b
	case "blt":
		return int32(a) < int32(b)
	case "bge":
		return int32(a) >= int32(b)
	case "bltu":
		return a < b
	default:
		return a >= b
	}
}

// alu evaluates a register-register or register-immediate operation
func alu(mnemonic string, a, b uint32) uint32 {
	switch mnemonic {
	case "add", "addi":
		return a + b
	case "sub":
		return a - b
	case "sll", "slli":
		return a << (b & 0x1F)
	case "srl", "srli":
		return a >> (b & 0x1F)
	case "sra", "srai":
		return uint32(int32(a) >> (b & 0x1F))
	case "slt", "slti":
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case "sltu", "sltiu":
		if a < b {
			return 1
		}
		return 0
	case "xor", "xori":
		return a ^ b
	case "or", "ori":
		return a | b
	default:
		return a & b
	}
}

// load performs a sign- or zero-extending memory read
func (i *Interpreter) load(pc uint32, mnemonic string, mem program.Operand) (uint32, error) {
	addr := i.regs[mem.Reg] + uint32(mem.Imm)

	size := map[string]uint32{"lb": 1, "lbu": 1, "lh": 2, "lhu": 2, "lw": 4}[mnemonic]
	v, ok := i.mem.Load(addr, size)
	if !ok {
		return 0, &Fault{Kind: ErrMemoryFault, PC: pc, Addr: addr}
	}

	switch mnemonic {
	case "lb":
		return uint32(int32(int8(v))), nil
	case "lh":
		return uint32(int32(int16(v))), nil
	}
	return v, nil
}

func (i *Interpreter) store(pc uint32, mnemonic string, mem program.Operand, v uint32) error {
	addr := i.regs[mem.Reg] + uint32(mem.Imm)

	size := map[string]uint32{"sb": 1, "sh": 2, "sw": 4}[mnemonic]
	if !i.mem.Store(addr, size, v) {
		return &Fault{Kind: ErrMemoryFault, PC: pc, Addr: addr}
	}
	return nil
}

// csr performs an atomic read-modify-write of a CSR. rd is written with the old value; the
// set and clear forms skip the write when the source is x0 or a zero immediate.
func (i *Interpreter) csr(in *program.Instruction, ops []program.Operand) {
	addr := uint32(ops[1].Imm)

	var src uint32
	var srcZero bool
	if ops[2].Kind == program.OperandImmediate {
		src = uint32(ops[2].Imm)
		srcZero = src == 0
	} else {
		src = i.regs[ops[2].Reg]
		srcZero = ops[2].Reg == 0
	}

	old := i.readCSR(addr)
	switch in.Mnemonic {
	case "csrrw", "csrrwi":
		i.writeCSR(addr, src)
	case "csrrs", "csrrsi":
		if !srcZero {
			i.writeCSR(addr, old|src)
		}
	default:
		if !srcZero {
			i.writeCSR(addr, old&^src)
		}
	}

	i.SetReg(ops[0].Reg, old)
}
