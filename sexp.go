// Package sexp reads and writes S-expressions.
//
// The subpackages form a pipeline: lexer decodes bytes into positioned
// tokens, parser folds tokens into value data, printer turns data back
// into tokens and text. Each stage works incrementally; the lexer and
// parser can suspend mid-construct when fed partial input and resume
// without losing state. This package bundles the common whole-input
// entry points.
package sexp

import (
	"io"

	"github.com/lispkit/sexp/lexer"
	"github.com/lispkit/sexp/parser"
	"github.com/lispkit/sexp/printer"
	"github.com/lispkit/sexp/token"
	"github.com/lispkit/sexp/value"
)

// Parse reads all data within in.
func Parse(in []byte) ([]*value.Value, error) {
	return parser.Parse(in)
}

// ParseOne reads a single datum from in, which must contain exactly one.
func ParseOne(in []byte) (*value.Value, error) {
	return parser.ParseOne(in)
}

// ReadAll reads data from r until end of input.
func ReadAll(r io.Reader) ([]*value.Value, error) {
	return parser.New(r).ReadAll()
}

// Tokenize scans all tokens within in, including the trailing EOF token.
func Tokenize(in []byte) ([]token.Token, error) {
	return lexer.Tokenize(in)
}

// Encode renders vals as S-expression text, one datum per line.
func Encode(vals ...*value.Value) string {
	return printer.Encode(vals...)
}

// Fprint writes the rendering of vals to w.
func Fprint(w io.Writer, vals ...*value.Value) error {
	return printer.Fprint(w, vals...)
}
