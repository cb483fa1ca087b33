package lexer

import (
	"iter"
	"strconv"
	"strings"

	"rvasm/pkg/isa"
)

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
	err      error  // first error, returned again on every later call
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Reset rewinds the lexer to the start of its input
func (l *Lexer) Reset() {
	l.position = 0
	l.line = 1
	l.column = 1
	l.err = nil
}

// Get the next token from the input. Once an error has been returned the lexer is stuck on it.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{Type: ILLEGAL, Pos: l.currentPosition()}, l.err
	}

	l.skipWhitespace()

	// End of input
	if l.position >= l.length {
		return NewToken(EOF, "", "", 0, l.currentPosition()), nil
	}

	pos := l.currentPosition()

	if l.input[l.position] == '\n' {
		l.advance(1)
		return NewToken(EOL, "\n", "", 0, pos), nil
	}

	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched {
		if remaining[0] == '"' {
			return l.fail(&Error{Kind: ErrUnterminatedString, Char: '"', Pos: pos})
		}
		ch := []rune(remaining)[0]
		return l.fail(&Error{Kind: ErrUnknownCharacter, Char: ch, Pos: pos})
	}

	tok := NewToken(tokenType, lexeme, lexeme, 0, pos)

	switch tokenType {
	case NUM:
		v, err := strconv.ParseInt(lexeme, 0, 64)
		if err != nil {
			// only reachable for literals wider than 64 bits
			return l.fail(&Error{Kind: ErrUnknownCharacter, Char: rune(lexeme[len(lexeme)-1]), Pos: pos})
		}
		tok.Value = v
	case REGISTER:
		idx, _ := isa.Register(lexeme)
		tok.Value = int64(idx)
		tok.Literal = isa.RegisterName(idx)
	case MNEMONIC:
		tok.Literal = isa.Canonical(lexeme)
	case DIRECTIVE:
		tok.Literal = strings.ToLower(lexeme)
	case LABEL:
		tok.Literal = strings.TrimSuffix(lexeme, ":")
	case STRING:
		s, bad, ok := unescape(lexeme[1 : len(lexeme)-1])
		if !ok {
			return l.fail(&Error{Kind: ErrUnknownCharacter, Char: bad, Pos: pos})
		}
		tok.Literal = s
	}

	l.advance(len(lexeme))

	return tok, nil
}

// View next token without advancing the position
func (l *Lexer) Peek() (Token, error) {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column
	cerr := l.err

	token, err := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol
	l.err = cerr

	return token, err
}

// Tokens returns a lazy token sequence over s. Every range over the sequence starts a fresh
// scan; the sequence ends after EOF or after the first error.
func Tokens(s string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := NewLexer(s)
		for {
			tok, err := l.NextToken()
			if !yield(tok, err) || err != nil || tok.Type == EOF {
				return
			}
		}
	}
}

// Tokenize scans all of s, EOF token included
func Tokenize(s string) ([]Token, error) {
	var out []Token
	for tok, err := range Tokens(s) {
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func (l *Lexer) fail(err *Error) (Token, error) {
	l.err = err
	return Token{Type: ILLEGAL, Lexeme: string(err.Char), Pos: err.Pos}, err
}

// Skip whitespace and comments, stopping at newlines
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]
		if ch == '\n' {
			return
		}
		t, skipped, ok := MatchToken(l.input[l.position:])
		if !ok || t != EOF {
			return
		}
		l.advance(len(skipped))
	}
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// unescape resolves backslash escapes in a string literal body. On failure it returns the
// offending escape character.
func unescape(body string) (string, rune, bool) {
	if !strings.ContainsRune(body, '\\') {
		return body, 0, true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}

		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(body[i])
		case 'x':
			if i+3 > len(body) {
				return "", 'x', false
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", 'x', false
			}
			b.WriteByte(byte(v))
			i += 2
		default:
			return "", rune(body[i]), false
		}
	}

	return b.String(), 0, true
}
