package lexer

import (
	"regexp"
	"strings"

	"rvasm/pkg/isa"
)

type tokenRegex struct {
	Type    TokenType
	Pattern *regexp.Regexp
}

// Token regex patterns in match precedence order
var tokenRegexes = []tokenRegex{
	{LABEL, regexp.MustCompile(`^[A-Za-z_.$][A-Za-z0-9_.$]*:`)},
	{STRING, regexp.MustCompile(`^"([^"\\\n]|\\.)*"`)},
	{NUM, regexp.MustCompile(`^-?(0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|[0-9][0-9_]*)\b`)},
	{ID, regexp.MustCompile(`^[A-Za-z_.$][A-Za-z0-9_.$]*`)},
	{COMMA, regexp.MustCompile(`^,`)},
	{LPAREN, regexp.MustCompile(`^\(`)},
	{RPAREN, regexp.MustCompile(`^\)`)},
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r\f\v]+`)
	commentRegex    = regexp.MustCompile(`^[#;][^\n]*`)
)

// MatchToken matches the next lexeme at the start of s. Whitespace and comments are reported as
// EOF with their text so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tr := range tokenRegexes {
		if match := tr.Pattern.FindString(s); match != "" {
			if tr.Type == ID {
				return classifyWord(match), match, true
			}
			return tr.Type, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}

// classifyWord decides whether a bare word is a mnemonic, a register, a directive or a plain
// identifier by consulting the ISA tables
func classifyWord(word string) TokenType {
	if strings.HasPrefix(word, ".") {
		if IsDirective(word) {
			return DIRECTIVE
		}
		return ID
	}
	if isa.IsMnemonic(word) {
		return MNEMONIC
	}
	if _, ok := isa.Register(word); ok {
		return REGISTER
	}
	return ID
}
