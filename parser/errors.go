package parser

import (
	"fmt"

	"github.com/lispkit/sexp/token"
)

// ErrorCode identifies the kind of a parse error.
type ErrorCode uint8

const (
	ErrUnexpectedToken ErrorCode = iota
	ErrMismatchedBracket
	ErrUnexpectedEOF
	ErrMalformedDot
	ErrInvalidNumber
)

var errorMessages = map[ErrorCode]string{
	ErrUnexpectedToken:   "unexpected token",
	ErrMismatchedBracket: "mismatched bracket",
	ErrUnexpectedEOF:     "unexpected end of input",
	ErrMalformedDot:      "misplaced '.'",
	ErrInvalidNumber:     "invalid number literal",
}

// Error is a parse failure pinned to an input position. It is terminal:
// the Parser does not resynchronize after reporting one.
type Error struct {
	Code   ErrorCode
	Pos    token.Position
	Detail string
}

func (e *Error) Error() string {
	msg := errorMessages[e.Code]
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	return fmt.Sprintf("%s at %v", msg, e.Pos)
}

func errorAt(code ErrorCode, pos token.Position) *Error {
	return &Error{Code: code, Pos: pos}
}
