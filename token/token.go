package token

import (
	"fmt"
)

// Type represents all the possible types of a lexical unit.
type Type uint8

// List of types of lexical units.
const (
	Invalid Type = iota

	Open            // open bracket, see Token.Bracket for the kind
	Close           // close bracket
	Atom            // raw symbol-or-number lexeme, classified by the parser
	Symbol          // |…|-quoted symbol, taken verbatim
	String          // string literal, decoded content
	Char            // character literal, decoded character
	Keyword         // #:keyword literal, name without the marker
	Quote           // '
	Quasiquote      // `
	Unquote         // ,
	UnquoteSplicing // ,@
	Dot             // . between the elements of a dotted pair
	DatumComment    // #; prefix discarding the next datum
	LineComment     // ; through end of line
	BlockComment    // #| … |#, may nest
	Whitespace      // run of whitespace characters

	EOF
)

// Bracket distinguishes the bracket kinds carried by Open and Close tokens.
type Bracket uint8

const (
	NoBracket Bracket = iota
	Round             // ( )
	Square            // [ ]
	Curly             // { }
	Vector            // #( … ), closed by )
)

// Token represents a known sequence of characters (lexical unit). Start and
// End delimit the token's span in the input; End is the position right
// after the token's last character.
type Token struct {
	Type    Type
	Bracket Bracket

	// Text holds the decoded payload: the raw lexeme for Atom, the decoded
	// content for String, Symbol, Char and Keyword, the comment body for
	// comments. Bracket and marker tokens keep their literal spelling.
	Text string

	Start Position
	End   Position
}

var typeNames = map[Type]string{
	Invalid:         "invalid",
	Open:            "open",
	Close:           "close",
	Atom:            "atom",
	Symbol:          "symbol",
	String:          "string",
	Char:            "char",
	Keyword:         "keyword",
	Quote:           "quote",
	Quasiquote:      "quasiquote",
	Unquote:         "unquote",
	UnquoteSplicing: "unquote-splicing",
	Dot:             "dot",
	DatumComment:    "datum-comment",
	LineComment:     "line-comment",
	BlockComment:    "block-comment",
	Whitespace:      "whitespace",
	EOF:             "EOF",
}

func (tt Type) String() string {
	if v, ok := typeNames[tt]; ok {
		return v
	}
	return typeNames[Invalid]
}

// Opening returns the opening character sequence of the bracket kind.
func (b Bracket) Opening() string {
	switch b {
	case Round:
		return "("
	case Square:
		return "["
	case Curly:
		return "{"
	case Vector:
		return "#("
	}
	return ""
}

// Closing returns the closing character of the bracket kind. A vector is
// closed by a round bracket.
func (b Bracket) Closing() string {
	switch b {
	case Round, Vector:
		return ")"
	case Square:
		return "]"
	case Curly:
		return "}"
	}
	return ""
}

// CloseKind returns the bracket kind a Close token must carry to match an
// Open token of kind b.
func (b Bracket) CloseKind() Bracket {
	if b == Vector {
		return Round
	}
	return b
}

// Is returns true if the token matches the given type.
func (t Token) Is(tt Type) bool {
	return t.Type == tt
}

func (t Token) String() string {
	return fmt.Sprintf("(:%v %q [%v %v])", t.Type, t.Text, t.Start, t.End)
}
