package parser

import (
	"rvasm/pkg/program"
)

var (
	zero = program.Reg(0)
	ra   = program.Reg(1)
)

var pseudoShapes = map[string]string{
	"nop":  "nop",
	"mv":   "mv reg, reg",
	"li":   "li reg, imm",
	"j":    "j label-or-imm",
	"jr":   "jr reg",
	"ret":  "ret",
	"beqz": "beqz reg, label-or-imm",
	"bnez": "bnez reg, label-or-imm",
	"csrr": "csrr reg, csr",
	"csrw": "csrw csr, reg",
}

// parsePseudo expands a pseudo-instruction into base instruction records
func (p *Parser) parsePseudo(name string, hdr program.Header) error {
	p.shape = pseudoShapes[name]

	switch name {
	case "nop":
		p.emit(hdr, "addi", zero, zero, program.Imm(0))

	case "ret":
		p.emit(hdr, "jalr", zero, ra, program.Imm(0))

	case "mv":
		ops, err := p.sequence(p.register, p.register)
		if err != nil {
			return err
		}
		p.emit(hdr, "addi", ops[0], ops[1], program.Imm(0))

	case "li":
		ops, err := p.sequence(p.register, p.immediate)
		if err != nil {
			return err
		}
		p.loadImmediate(hdr, ops[0], ops[1].Imm)

	case "j":
		target, err := p.target()
		if err != nil {
			return err
		}
		p.emit(hdr, "jal", zero, target)

	case "jr":
		rs, err := p.register()
		if err != nil {
			return err
		}
		p.emit(hdr, "jalr", zero, rs, program.Imm(0))

	case "beqz", "bnez":
		ops, err := p.sequence(p.register, p.target)
		if err != nil {
			return err
		}
		p.emit(hdr, name[:3], ops[0], zero, ops[1])

	case "csrr":
		ops, err := p.sequence(p.register, p.csr)
		if err != nil {
			return err
		}
		p.emit(hdr, "csrrs", ops[0], ops[1], zero)

	case "csrw":
		ops, err := p.sequence(p.csr, p.register)
		if err != nil {
			return err
		}
		p.emit(hdr, "csrrw", zero, ops[0], ops[1])
	}

	return nil
}

// loadImmediate expands li into addi, or lui (+ addi) when the value needs more than 12 bits.
// Values outside 32 bits are left to the encoder to reject.
func (p *Parser) loadImmediate(hdr program.Header, rd program.Operand, v int64) {
	if (v >= -2048 && v <= 2047) || v < -(1<<31) || v > (1<<32)-1 {
		p.emit(hdr, "addi", rd, zero, program.Imm(v))
		return
	}

	u := uint32(v)
	lo := int64(int32(u<<20) >> 20)
	hi := int64((u - uint32(lo)) >> 12)

	p.emit(hdr, "lui", rd, program.Imm(hi))
	if lo != 0 {
		p.emit(hdr, "addi", rd, rd, program.Imm(lo))
	}
}
