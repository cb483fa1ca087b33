package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Normalised text: canonical mnemonic, label name, directive, unescaped string
	Value   int64     // Register index or integer value
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, value int64, pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}

const (
	EOF TokenType = iota // End of file
	EOL                  // end of a source line

	MNEMONIC  // addi, ADDI, ret ...
	REGISTER  // x0..x31 or ABI name
	NUM       // integer literal
	ID        // label reference or CSR name
	LABEL     // label definition (name:)
	DIRECTIVE // .text, .string ...
	STRING    // string literal

	COMMA  // ,
	LPAREN // (
	RPAREN // )

	ILLEGAL // illegal token
)

// Directives are the assembler directives the lexer reports as DIRECTIVE tokens
var Directives = map[string]bool{
	".text":        true,
	".rodata":      true,
	".data":        true,
	".bss":         true,
	".section":     true,
	".pushsection": true,
	".popsection":  true,
	".string":      true,
	".asciz":       true,
	".ascii":       true,
	".byte":        true,
	".half":        true,
	".short":       true,
	".word":        true,
	".long":        true,
	".space":       true,
	".zero":        true,
	".align":       true,
	".p2align":     true,
	".balign":      true,
}

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	EOL:       "end of line",
	MNEMONIC:  "mnemonic",
	REGISTER:  "register",
	NUM:       "integer",
	ID:        "identifier",
	LABEL:     "label definition",
	DIRECTIVE: "directive",
	STRING:    "string",
	COMMA:     "','",
	LPAREN:    "'('",
	RPAREN:    "')'",
	ILLEGAL:   "illegal",
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %q, %s}", t.Type, t.Lexeme, t.Pos.String())
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos.String())
}

// Describe renders the token the way diagnostics quote it
func (t Token) Describe() string {
	switch t.Type {
	case EOF, EOL:
		return t.Type.String()
	default:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	}
}

// IsDirective checks if the given word is a known directive, ignoring case
func IsDirective(word string) bool {
	return Directives[strings.ToLower(word)]
}
