package lexer

import (
	"errors"
	"fmt"

	"github.com/lispkit/sexp/token"
)

// ErrMoreInput is returned by an incrementally-fed Lexer or Decoder when
// the buffered input ends mid-token and the source has not been closed.
// The call can be retried after Feed; no partial token is lost.
var ErrMoreInput = errors.New("more input required")

// IOError wraps a failure of the underlying byte source.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read error: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DecodeError reports bytes that are not valid UTF-8. Offset is the byte
// offset of the first invalid byte. The error is terminal for the
// decoding session.
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 encoding at byte offset %d", e.Offset)
}

// ErrorCode identifies the kind of a tokenize error.
type ErrorCode uint8

const (
	ErrUnterminatedString ErrorCode = iota
	ErrUnterminatedComment
	ErrInvalidCharLiteral
	ErrInvalidEscape
	ErrInvalidHashToken
)

var errorMessages = map[ErrorCode]string{
	ErrUnterminatedString:  "unterminated string literal",
	ErrUnterminatedComment: "unterminated block comment",
	ErrInvalidCharLiteral:  "invalid character literal",
	ErrInvalidEscape:       "invalid escape sequence",
	ErrInvalidHashToken:    "invalid '#' token",
}

// Error is a tokenize failure pinned to an input position. It is terminal:
// the Lexer does not resynchronize after reporting one.
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
