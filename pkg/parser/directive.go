package parser

import (
	"math/bits"

	"rvasm/pkg/lexer"
	"rvasm/pkg/program"
)

var dataWidths = map[string]int{
	".byte":  1,
	".half":  2,
	".short": 2,
	".word":  4,
	".long":  4,
}

// parseDirective handles section switches, data and alignment directives
func (p *Parser) parseDirective() error {
	tok := p.currentToken
	hdr := p.header()
	name := tok.Literal

	if err := p.nextToken(); err != nil {
		return err
	}
	p.shape = name

	if sec, ok := program.ParseSection(name); ok {
		p.section = sec
		return nil
	}

	switch name {
	case ".section":
		sec, err := p.sectionOperand()
		if err != nil {
			return err
		}
		p.section = sec
		return nil

	case ".pushsection":
		sec, err := p.sectionOperand()
		if err != nil {
			return err
		}
		p.saved.Push(p.section)
		p.section = sec
		return nil

	case ".popsection":
		sec, ok := p.saved.Pop()
		if !ok {
			return p.invalidDirective(tok, "a matching .pushsection")
		}
		p.section = sec
		return nil

	case ".space", ".zero":
		n, err := p.expect(lexer.NUM, "byte count")
		if err != nil {
			return err
		}
		if n.Value < 0 || n.Value > 1<<32-1 {
			return &Error{Kind: ErrUnexpectedToken, Expected: "non-negative byte count", Got: n, Line: n.Pos.Line}
		}
		p.append(&program.DataRecord{Hdr: hdr, Reserve: uint32(n.Value)})
		return nil

	case ".align", ".p2align", ".balign":
		return p.parseAlign(name, hdr)
	}

	if p.section == program.BSS {
		return p.invalidDirective(tok, "only .space, .zero or alignment in .bss")
	}

	switch name {
	case ".string", ".asciz":
		return p.parseStrings(hdr, true)
	case ".ascii":
		return p.parseStrings(hdr, false)
	}

	if width, ok := dataWidths[name]; ok {
		return p.parseValues(hdr, width)
	}

	return p.invalidDirective(tok, "a known directive")
}

// sectionOperand parses the section name after .section / .pushsection
func (p *Parser) sectionOperand() (program.SectionName, error) {
	tok := p.currentToken
	if tok.Type == lexer.DIRECTIVE {
		if sec, ok := program.ParseSection(tok.Literal); ok {
			return sec, p.nextToken()
		}
	}
	if tok.Type == lexer.ID || tok.Type == lexer.DIRECTIVE {
		return 0, p.invalidDirective(tok, ".text, .rodata, .data or .bss")
	}
	return 0, p.unexpected("section name")
}

// parseStrings parses a comma-separated list of string literals into one data record
func (p *Parser) parseStrings(hdr program.Header, terminate bool) error {
	var out []byte
	for {
		s, err := p.expect(lexer.STRING, "string literal")
		if err != nil {
			return err
		}
		out = append(out, s.Literal...)
		if terminate {
			out = append(out, 0)
		}

		if _, ok, err := p.accept(lexer.COMMA); err != nil {
			return err
		} else if !ok {
			break
		}
	}

	p.append(&program.DataRecord{Hdr: hdr, Bytes: out})
	return nil
}

// parseValues parses a comma-separated list of integers or labels of the given width
func (p *Parser) parseValues(hdr program.Header, width int) error {
	d := &program.DataRecord{Hdr: hdr}
	for {
		field := program.Field{Offset: uint32(len(d.Bytes)), Width: width}
		switch tok := p.currentToken; tok.Type {
		case lexer.NUM:
			field.Value = tok.Value
		case lexer.ID, lexer.MNEMONIC, lexer.REGISTER:
			field.Label = tok.Lexeme
		default:
			return p.unexpected("integer or label")
		}
		if err := p.nextToken(); err != nil {
			return err
		}

		d.Fields = append(d.Fields, field)
		d.Bytes = append(d.Bytes, make([]byte, width)...)

		if _, ok, err := p.accept(lexer.COMMA); err != nil {
			return err
		} else if !ok {
			break
		}
	}

	p.append(d)
	return nil
}

// parseAlign parses .align/.p2align (power of two exponent) and .balign (byte boundary)
func (p *Parser) parseAlign(name string, hdr program.Header) error {
	n, err := p.expect(lexer.NUM, "alignment")
	if err != nil {
		return err
	}

	var boundary uint64
	if name == ".balign" {
		boundary = uint64(n.Value)
		if n.Value <= 0 || n.Value > 1<<16 || bits.OnesCount64(boundary) != 1 {
			return &Error{Kind: ErrUnexpectedToken, Expected: "power-of-two byte boundary", Got: n, Line: n.Pos.Line}
		}
	} else {
		if n.Value < 0 || n.Value > 16 {
			return &Error{Kind: ErrUnexpectedToken, Expected: "alignment exponent 0..16", Got: n, Line: n.Pos.Line}
		}
		boundary = 1 << n.Value
	}

	p.append(&program.Align{Hdr: hdr, Boundary: uint32(boundary)})
	return nil
}
