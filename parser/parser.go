package parser

import (
	"bytes"
	"io"

	"github.com/lispkit/sexp/lexer"
	"github.com/lispkit/sexp/token"
	"github.com/lispkit/sexp/value"
)

// prefixOp is a quote-family marker or datum comment waiting for the datum
// it applies to. A nil sym discards the datum instead of wrapping it.
type prefixOp struct {
	sym *value.Value
	pos token.Position
}

// frame accumulates the elements of one open bracket. The base frame has
// NoBracket and collects top-level prefix operators.
type frame struct {
	bracket token.Bracket
	openPos token.Position

	elems   []*value.Value
	pending []prefixOp

	hasDot  bool
	dotPos  token.Position
	tail    *value.Value
	hasTail bool
}

// Parser turns a token stream into data. It keeps its own bracket stack
// instead of recursing, so input depth is bounded by memory, not by the
// goroutine stack, and a parse suspended by ErrMoreInput resumes exactly
// where it stopped.
type Parser struct {
	lx    *lexer.Lexer
	base  *frame
	stack []*frame
	err   error
}

// New returns a Parser reading from r with R7RS syntax.
func New(r io.Reader) *Parser {
	return FromLexer(lexer.New(r))
}

// NewWithSyntax returns a Parser reading from r with the given syntax.
func NewWithSyntax(r io.Reader, syn *lexer.Syntax) *Parser {
	return FromLexer(lexer.NewWithSyntax(r, syn))
}

// FromLexer returns a Parser consuming lx, which may be incremental; Read
// then surfaces lexer.ErrMoreInput and can be retried after feeding more
// bytes.
func FromLexer(lx *lexer.Lexer) *Parser {
	return &Parser{lx: lx, base: &frame{}}
}

// Lexer returns the underlying token source, giving access to Feed and
// Close on an incremental Parser.
func (p *Parser) Lexer() *lexer.Lexer {
	return p.lx
}

var (
	symQuote           = value.SymbolOf("quote")
	symQuasiquote      = value.SymbolOf("quasiquote")
	symUnquote         = value.SymbolOf("unquote")
	symUnquoteSplicing = value.SymbolOf("unquote-splicing")
)

// Read returns the next complete datum, io.EOF at clean end of input, or
// lexer.ErrMoreInput when an incremental source ran dry; every other error
// is terminal.
func (p *Parser) Read() (*value.Value, error) {
	if p.err != nil {
		return nil, p.err
	}

	for {
		tok, err := p.lx.Next()
		if err == lexer.ErrMoreInput {
			return nil, err
		}
		if err != nil {
			p.err = err
			return nil, err
		}

		switch tok.Type {
		case token.Whitespace, token.LineComment, token.BlockComment:
			continue

		case token.EOF:
			if len(p.stack) > 0 {
				top := p.stack[len(p.stack)-1]
				return nil, p.fail(&Error{
					Code:   ErrUnexpectedEOF,
					Pos:    top.openPos,
					Detail: "'" + top.bracket.Opening() + "' is not closed",
				})
			}
			if len(p.base.pending) > 0 {
				op := p.base.pending[len(p.base.pending)-1]
				return nil, p.fail(errorAt(ErrUnexpectedEOF, op.pos))
			}
			return nil, io.EOF

		case token.Open:
			p.stack = append(p.stack, &frame{bracket: tok.Bracket, openPos: tok.Start})

		case token.Close:
			top := p.top()
			if top == p.base {
				return nil, p.fail(&Error{
					Code:   ErrUnexpectedToken,
					Pos:    tok.Start,
					Detail: "'" + tok.Bracket.Closing() + "' without a matching opening bracket",
				})
			}
			if tok.Bracket != top.bracket.CloseKind() {
				return nil, p.fail(&Error{
					Code:   ErrMismatchedBracket,
					Pos:    tok.Start,
					Detail: "'" + tok.Bracket.Closing() + "' closing '" + top.bracket.Opening() + "'",
				})
			}
			if len(top.pending) > 0 {
				return nil, p.fail(&Error{
					Code:   ErrUnexpectedToken,
					Pos:    tok.Start,
					Detail: "closing bracket after quote marker",
				})
			}
			if top.hasDot && !top.hasTail {
				return nil, p.fail(errorAt(ErrMalformedDot, top.dotPos))
			}
			p.stack = p.stack[:len(p.stack)-1]
			if v, done, err := p.complete(finish(top), top.openPos); err != nil {
				return nil, err
			} else if done {
				return v, nil
			}

		case token.Quote:
			p.pushPrefix(symQuote, tok.Start)
		case token.Quasiquote:
			p.pushPrefix(symQuasiquote, tok.Start)
		case token.Unquote:
			p.pushPrefix(symUnquote, tok.Start)
		case token.UnquoteSplicing:
			p.pushPrefix(symUnquoteSplicing, tok.Start)
		case token.DatumComment:
			p.pushPrefix(nil, tok.Start)

		case token.Dot:
			top := p.top()
			switch {
			case top == p.base:
				return nil, p.fail(&Error{Code: ErrMalformedDot, Pos: tok.Start, Detail: "'.' outside a list"})
			case top.bracket != token.Round:
				return nil, p.fail(&Error{Code: ErrMalformedDot, Pos: tok.Start, Detail: "'.' allowed in round brackets only"})
			case len(top.elems) == 0:
				return nil, p.fail(&Error{Code: ErrMalformedDot, Pos: tok.Start, Detail: "'.' before any list element"})
			case top.hasDot:
				return nil, p.fail(&Error{Code: ErrMalformedDot, Pos: tok.Start, Detail: "second '.' in one list"})
			case len(top.pending) > 0:
				return nil, p.fail(&Error{Code: ErrMalformedDot, Pos: tok.Start, Detail: "'.' after quote marker"})
			}
			top.hasDot = true
			top.dotPos = tok.Start

		default:
			datum, err := p.datum(tok)
			if err != nil {
				return nil, p.fail(err)
			}
			if v, done, err := p.complete(datum, tok.Start); err != nil {
				return nil, err
			} else if done {
				return v, nil
			}
		}
	}
}

func (p *Parser) fail(err error) error {
	p.err = err
	return err
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return p.base
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) pushPrefix(sym *value.Value, pos token.Position) {
	top := p.top()
	top.pending = append(top.pending, prefixOp{sym: sym, pos: pos})
}

// datum converts a self-contained token into a value.
func (p *Parser) datum(tok token.Token) (*value.Value, error) {
	switch tok.Type {
	case token.Atom:
		return classifyAtom(tok)
	case token.Symbol:
		return value.SymbolOf(tok.Text), nil
	case token.String:
		return value.NewString(tok.Text), nil
	case token.Keyword:
		return value.NewKeyword(tok.Text), nil
	case token.Char:
		return value.NewChar([]rune(tok.Text)[0]), nil
	}
	return nil, &Error{
		Code:   ErrUnexpectedToken,
		Pos:    tok.Start,
		Detail: "'" + tok.Type.String() + "'",
	}
}

// complete hands a finished datum to the enclosing frame after unwinding
// the prefix operators waiting for it, innermost first. It reports done
// when the datum finished a top-level read.
func (p *Parser) complete(v *value.Value, pos token.Position) (*value.Value, bool, error) {
	top := p.top()

	for len(top.pending) > 0 {
		op := top.pending[len(top.pending)-1]
		top.pending = top.pending[:len(top.pending)-1]
		if op.sym == nil {
			// datum comment: the datum evaporates
			return nil, false, nil
		}
		v = value.NewList(op.sym, v)
	}

	if top == p.base {
		return v, true, nil
	}
	if top.hasDot {
		if top.hasTail {
			return nil, false, p.fail(&Error{
				Code:   ErrMalformedDot,
				Pos:    pos,
				Detail: "more than one datum after '.'",
			})
		}
		top.tail = v
		top.hasTail = true
		return nil, false, nil
	}
	top.elems = append(top.elems, v)
	return nil, false, nil
}

func finish(f *frame) *value.Value {
	if f.bracket == token.Vector {
		return value.NewVector(f.elems...)
	}
	if f.hasTail {
		return value.NewImproperList(f.elems, f.tail)
	}
	return value.NewList(f.elems...)
}

// ReadAll reads data until end of input.
func (p *Parser) ReadAll() ([]*value.Value, error) {
	var out []*value.Value
	for {
		v, err := p.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Parse reads all data within in.
func Parse(in []byte) ([]*value.Value, error) {
	return New(bytes.NewReader(in)).ReadAll()
}

// ParseOne reads a single datum from in, which must contain exactly one.
func ParseOne(in []byte) (*value.Value, error) {
	p := New(bytes.NewReader(in))
	v, err := p.Read()
	if err != nil {
		return nil, err
	}
	if _, err := p.Read(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, &Error{Code: ErrUnexpectedToken, Detail: "more than one datum"}
	}
	return v, nil
}
