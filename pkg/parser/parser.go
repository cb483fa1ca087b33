package parser

import (
	"strings"

	"rvasm/pkg/lexer"
	"rvasm/pkg/parser/stack"
	"rvasm/pkg/program"

	"github.com/charmbracelet/log"
)

type Parser struct {
	lexer        *lexer.Lexer                      // lexer instance
	currentToken lexer.Token                       // current token
	program      *program.Program                  // program being built
	section      program.SectionName               // active section
	saved        *stack.Stack[program.SectionName] // .pushsection / .popsection
	shape        string                            // operand shape of the instruction being parsed
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{
		lexer:   l,
		program: program.New(),
		section: program.Text,
		saved:   stack.NewStack[program.SectionName](),
	}
}

// Parse parses source text into a program with unplaced records
func Parse(src string) (*program.Program, error) {
	return NewParser(lexer.NewLexer(src)).Parse()
}

// Parse consumes the whole token stream and returns the program. The first error stops parsing.
func (p *Parser) Parse() (*program.Program, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	for p.currentToken.Type != lexer.EOF {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}

	log.Debug("Parsed program", "records", len(p.program.Records))

	return p.program, nil
}

// parseStatement parses one source line: labels, then at most one instruction or directive
func (p *Parser) parseStatement() error {
	for p.currentToken.Type == lexer.LABEL {
		p.append(&program.Label{Hdr: p.header(), Name: p.currentToken.Literal})
		if err := p.nextToken(); err != nil {
			return err
		}
	}

	var err error
	switch tok := p.currentToken; tok.Type {
	case lexer.EOL, lexer.EOF:
	case lexer.MNEMONIC:
		err = p.parseInstruction()
	case lexer.DIRECTIVE:
		err = p.parseDirective()
	case lexer.ID:
		if strings.HasPrefix(tok.Lexeme, ".") {
			return p.invalidDirective(tok, "a known directive")
		}
		return p.unexpected("mnemonic, directive or label")
	default:
		return p.unexpected("mnemonic, directive or label")
	}
	if err != nil {
		return err
	}

	p.shape = ""
	if !p.atEndOfStatement() {
		return p.unexpected("end of line")
	}
	if p.currentToken.Type == lexer.EOL {
		return p.nextToken()
	}

	return nil
}

// nextToken advances to the next token from the lexer
func (p *Parser) nextToken() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.currentToken = tok
	return nil
}

// atEndOfStatement reports whether the current token ends the line
func (p *Parser) atEndOfStatement() bool {
	return p.currentToken.Type == lexer.EOL || p.currentToken.Type == lexer.EOF
}

// header starts a record header in the active section at the current line
func (p *Parser) header() program.Header {
	return program.Header{Section: p.section, Line: p.currentToken.Pos.Line}
}

// append adds a record to the program
func (p *Parser) append(r program.Record) {
	p.program.Append(r)
}

// accept consumes the current token if it has the given type
func (p *Parser) accept(t lexer.TokenType) (lexer.Token, bool, error) {
	tok := p.currentToken
	if tok.Type != t {
		return tok, false, nil
	}
	return tok, true, p.nextToken()
}

// expect consumes a token of the given type or fails naming what was expected
func (p *Parser) expect(t lexer.TokenType, expected string) (lexer.Token, error) {
	tok, ok, err := p.accept(t)
	if err != nil {
		return tok, err
	}
	if !ok {
		return tok, p.unexpected(expected)
	}
	return tok, nil
}
