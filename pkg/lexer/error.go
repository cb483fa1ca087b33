package lexer

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCharacter   = errors.New("unknown character")
	ErrUnterminatedString = errors.New("unterminated string")
)

// Error is a LexError. Kind is one of the Err* sentinels above.
type Error struct {
	Kind error
	Char rune
	Pos  Position
}

func (e *Error) Error() string {
	if errors.Is(e.Kind, ErrUnknownCharacter) {
		return fmt.Sprintf("line %d: lex error: %v %q", e.Pos.Line, e.Kind, e.Char)
	}
	return fmt.Sprintf("line %d: lex error: %v", e.Pos.Line, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Line returns the source line the error was raised on
func (e *Error) Line() int {
	return e.Pos.Line
}
