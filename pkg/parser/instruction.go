package parser

import (
	"fmt"

	"rvasm/pkg/isa"
	"rvasm/pkg/lexer"
	"rvasm/pkg/program"
)

// parseInstruction parses a mnemonic and its operands according to the mnemonic's category
func (p *Parser) parseInstruction() error {
	tok := p.currentToken
	hdr := p.header()

	if p.section == program.BSS {
		return &Error{Kind: ErrUnexpectedToken, Expected: "data reservation in .bss", Got: tok, Line: tok.Pos.Line}
	}

	if err := p.nextToken(); err != nil {
		return err
	}

	if isa.IsPseudo(tok.Literal) {
		return p.parsePseudo(tok.Literal, hdr)
	}

	in, ok := isa.Lookup(tok.Literal)
	if !ok {
		return &Error{Kind: ErrUnexpectedToken, Expected: "mnemonic", Got: tok, Line: tok.Pos.Line}
	}
	p.shape = fmt.Sprintf("%s %s", in.Mnemonic, in.Category.Shape())

	ops, err := p.parseOperands(in)
	if err != nil {
		return err
	}

	p.emit(hdr, in.Mnemonic, ops...)
	return nil
}

// parseOperands parses the operand list of a base instruction into canonical order
func (p *Parser) parseOperands(in isa.Instruction) ([]program.Operand, error) {
	switch in.Category {
	case isa.CategoryR:
		return p.sequence(p.register, p.register, p.register)

	case isa.CategoryArith:
		return p.sequence(p.register, p.register, p.immediate)

	case isa.CategoryLoad, isa.CategoryStore:
		return p.sequence(p.register, p.memory)

	case isa.CategoryBranch:
		return p.sequence(p.register, p.register, p.target)

	case isa.CategoryUpper:
		return p.sequence(p.register, p.immediate)

	case isa.CategoryJump:
		// jal target is shorthand for jal ra, target
		if p.currentToken.Type != lexer.REGISTER {
			target, err := p.target()
			if err != nil {
				return nil, err
			}
			return []program.Operand{program.Reg(1), target}, nil
		}
		return p.sequence(p.register, p.target)

	case isa.CategoryJumpReg:
		return p.jumpRegister()

	case isa.CategoryCSR:
		last := p.register
		if in.ZImm {
			last = p.immediate
		}
		return p.sequence(p.register, p.csr, last)

	case isa.CategoryNone:
		return nil, nil
	}

	return nil, &Error{Kind: ErrUnexpectedToken, Expected: "mnemonic", Got: p.currentToken, Line: p.currentToken.Pos.Line}
}

// jumpRegister accepts jalr rd, rs1, imm / jalr rd, imm(rs1) / jalr rs1
func (p *Parser) jumpRegister() ([]program.Operand, error) {
	first, err := p.register()
	if err != nil {
		return nil, err
	}
	if p.atEndOfStatement() {
		return []program.Operand{program.Reg(1), first, program.Imm(0)}, nil
	}
	if _, err := p.expect(lexer.COMMA, "','"); err != nil {
		return nil, err
	}

	if p.currentToken.Type == lexer.REGISTER {
		rest, err := p.sequence(p.register, p.immediate)
		if err != nil {
			return nil, err
		}
		return append([]program.Operand{first}, rest...), nil
	}

	mem, err := p.memory()
	if err != nil {
		return nil, err
	}
	return []program.Operand{first, program.Reg(mem.Reg), program.Imm(mem.Imm)}, nil
}

type operandFunc func() (program.Operand, error)

// sequence parses comma-separated operands with the given parsers
func (p *Parser) sequence(parts ...operandFunc) ([]program.Operand, error) {
	ops := make([]program.Operand, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			if _, err := p.expect(lexer.COMMA, "','"); err != nil {
				return nil, err
			}
		}
		op, err := part()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (p *Parser) register() (program.Operand, error) {
	tok, err := p.expect(lexer.REGISTER, "register")
	if err != nil {
		return program.Operand{}, err
	}
	return program.Reg(int(tok.Value)), nil
}

func (p *Parser) immediate() (program.Operand, error) {
	tok, err := p.expect(lexer.NUM, "immediate")
	if err != nil {
		return program.Operand{}, err
	}
	return program.Imm(tok.Value), nil
}

// target parses a branch or jump destination: a label or a literal PC-relative offset
func (p *Parser) target() (program.Operand, error) {
	switch tok := p.currentToken; tok.Type {
	case lexer.NUM:
		return program.Imm(tok.Value), p.nextToken()
	case lexer.ID, lexer.MNEMONIC, lexer.REGISTER:
		return program.LabelRef(tok.Lexeme), p.nextToken()
	}
	return program.Operand{}, p.unexpected("label or immediate")
}

// memory parses imm(reg), with the displacement optional
func (p *Parser) memory() (program.Operand, error) {
	var disp int64
	if tok, ok, err := p.accept(lexer.NUM); err != nil {
		return program.Operand{}, err
	} else if ok {
		disp = tok.Value
	}

	if _, err := p.expect(lexer.LPAREN, "'(' of a memory operand"); err != nil {
		return program.Operand{}, err
	}
	base, err := p.expect(lexer.REGISTER, "base register")
	if err != nil {
		return program.Operand{}, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return program.Operand{}, err
	}

	return program.Mem(int(base.Value), disp), nil
}

// csr parses a CSR address or a CSR name
func (p *Parser) csr() (program.Operand, error) {
	switch tok := p.currentToken; tok.Type {
	case lexer.NUM:
		return program.Imm(tok.Value), p.nextToken()
	case lexer.ID:
		if addr, ok := isa.CSR(tok.Lexeme); ok {
			return program.Imm(int64(addr)), p.nextToken()
		}
	}
	return program.Operand{}, p.unexpected("CSR address or name")
}

// emit appends one instruction record
func (p *Parser) emit(hdr program.Header, mnemonic string, ops ...program.Operand) {
	p.append(&program.Instruction{Hdr: hdr, Mnemonic: mnemonic, Operands: ops})
}
