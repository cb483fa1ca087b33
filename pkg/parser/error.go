package parser

import (
	"errors"
	"fmt"

	"rvasm/pkg/lexer"
)

var (
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrMissingOperand   = errors.New("missing operand")
	ErrInvalidDirective = errors.New("invalid directive")
)

// Error is a ParseError. Kind is one of the Err* sentinels above.
type Error struct {
	Kind     error
	Expected string      // what the parser wanted, e.g. "register"
	Shape    string      // operand shape of the instruction being parsed, if any
	Got      lexer.Token // the offending token
	Line     int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("line %d: parse error: %v", e.Line, e.Kind)
	if e.Shape != "" {
		msg += fmt.Sprintf(" (operands: %s)", e.Shape)
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s", e.Expected)
	}
	return msg + fmt.Sprintf(", got %s", e.Got.Describe())
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// unexpected builds an UnexpectedToken error, or MissingOperand when the line has already ended
func (p *Parser) unexpected(expected string) error {
	kind := ErrUnexpectedToken
	if p.atEndOfStatement() && p.shape != "" {
		kind = ErrMissingOperand
	}
	return &Error{Kind: kind, Expected: expected, Shape: p.shape, Got: p.currentToken, Line: p.currentToken.Pos.Line}
}

// invalidDirective builds an InvalidDirective error for the given directive token
func (p *Parser) invalidDirective(tok lexer.Token, reason string) error {
	return &Error{Kind: ErrInvalidDirective, Expected: reason, Got: tok, Line: tok.Pos.Line}
}
