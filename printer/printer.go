// Package printer renders data back into S-expression text. The central
// type is Stream, a lazy token source: rendering a large structure costs
// one token of work at a time and no intermediate buffer.
package printer

import (
	"io"
	"strings"

	"github.com/lispkit/sexp/token"
	"github.com/lispkit/sexp/value"
)

// entry is one pending unit of printing work: either a literal token or a
// value still to be expanded.
type entry struct {
	lit bool
	tok token.Token
	v   *value.Value
}

// Stream produces the token sequence spelling out a datum, one token per
// Next call. Emitted tokens carry the positions they will occupy in the
// rendered output, starting from line 1, column 1.
type Stream struct {
	work []entry
	pos  token.Position
}

// NewStream returns a Stream over the given data. Multiple data are
// separated by newline whitespace tokens.
func NewStream(vals ...*value.Value) *Stream {
	s := &Stream{pos: token.StartPosition()}
	// pushed in reverse so the work stack pops in document order, each
	// datum before the separator that follows it
	for i := len(vals) - 1; i >= 0; i-- {
		s.push(entry{v: vals[i]})
		if i > 0 {
			s.push(entry{lit: true, tok: token.Token{Type: token.Whitespace, Text: "\n"}})
		}
	}
	return s
}

func (s *Stream) push(e entry) {
	s.work = append(s.work, e)
}

// Next returns the next token of the rendering, or false when the stream
// is exhausted.
func (s *Stream) Next() (token.Token, bool) {
	for len(s.work) > 0 {
		e := s.work[len(s.work)-1]
		s.work = s.work[:len(s.work)-1]
		if !e.lit {
			s.expand(e.v)
			continue
		}
		tok := e.tok
		tok.Start = s.pos
		for _, r := range Render(tok) {
			s.pos = s.pos.Advance(r)
		}
		tok.End = s.pos
		return tok, true
	}
	return token.Token{Type: token.EOF, Start: s.pos, End: s.pos}, false
}

// expand replaces a value with the tokens spelling it, pushed in reverse
// so they pop in order.
func (s *Stream) expand(v *value.Value) {
	switch v.Type() {
	case value.TypeList, value.TypeImproperList, value.TypeVector:
		bracket := token.Round
		if v.Type() == value.TypeVector {
			bracket = token.Vector
		}

		var seq []entry
		seq = append(seq, entry{lit: true, tok: token.Token{Type: token.Open, Bracket: bracket}})
		for i, e := range v.List() {
			if i > 0 {
				seq = append(seq, space())
			}
			seq = append(seq, entry{v: e})
		}
		if v.Type() == value.TypeImproperList {
			seq = append(seq, space(), entry{lit: true, tok: token.Token{Type: token.Dot, Text: "."}}, space())
			seq = append(seq, entry{v: v.Tail()})
		}
		seq = append(seq, entry{lit: true, tok: token.Token{Type: token.Close, Bracket: bracket.CloseKind()}})

		for i := len(seq) - 1; i >= 0; i-- {
			s.push(seq[i])
		}

	default:
		s.push(entry{lit: true, tok: atomToken(v)})
	}
}

func space() entry {
	return entry{lit: true, tok: token.Token{Type: token.Whitespace, Text: " "}}
}

func atomToken(v *value.Value) token.Token {
	switch v.Type() {
	case value.TypeBool:
		if v.Bool() {
			return token.Token{Type: token.Atom, Text: "#t"}
		}
		return token.Token{Type: token.Atom, Text: "#f"}
	case value.TypeInt:
		return token.Token{Type: token.Atom, Text: v.Int().String()}
	case value.TypeChar:
		return token.Token{Type: token.Char, Text: string(v.Char())}
	case value.TypeString:
		return token.Token{Type: token.String, Text: v.Text()}
	case value.TypeSymbol:
		return token.Token{Type: token.Symbol, Text: v.Symbol().Name()}
	case value.TypeKeyword:
		// the trailing spelling has no token-level marker; pre-render it
		// as an atom when it survives bare
		if v.KeywordTrailing() {
			if spelled := value.EncodeKeyword(v.Text(), true); !strings.HasPrefix(spelled, "#:") {
				return token.Token{Type: token.Atom, Text: spelled}
			}
		}
		return token.Token{Type: token.Keyword, Text: v.Text()}
	}
	return token.Token{Type: token.Invalid}
}

// Render spells out a single token. Payload-carrying tokens are re-escaped
// from their decoded Text; everything else has a fixed spelling.
func Render(tok token.Token) string {
	switch tok.Type {
	case token.Open:
		return tok.Bracket.Opening()
	case token.Close:
		return tok.Bracket.Closing()
	case token.Atom:
		return tok.Text
	case token.Symbol:
		return value.EncodeSymbol(tok.Text)
	case token.String:
		return value.EncodeString(tok.Text)
	case token.Char:
		return value.EncodeChar([]rune(tok.Text)[0])
	case token.Keyword:
		return value.EncodeKeyword(tok.Text, false)
	case token.Quote:
		return "'"
	case token.Quasiquote:
		return "`"
	case token.Unquote:
		return ","
	case token.UnquoteSplicing:
		return ",@"
	case token.Dot:
		return "."
	case token.DatumComment:
		return "#;"
	case token.LineComment:
		return ";" + tok.Text
	case token.BlockComment:
		return "#|" + tok.Text + "|#"
	case token.Whitespace:
		if tok.Text == "" {
			return " "
		}
		return tok.Text
	}
	return ""
}

// Fprint writes the rendering of vals to w.
func Fprint(w io.Writer, vals ...*value.Value) error {
	s := NewStream(vals...)
	for {
		tok, ok := s.Next()
		if !ok {
			return nil
		}
		if _, err := io.WriteString(w, Render(tok)); err != nil {
			return err
		}
	}
}

// Encode returns the rendering of vals as a string.
func Encode(vals ...*value.Value) string {
	var b strings.Builder
	// strings.Builder never fails
	Fprint(&b, vals...)
	return b.String()
}
