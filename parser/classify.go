package parser

import (
	"math/big"

	"github.com/lispkit/sexp/token"
	"github.com/lispkit/sexp/value"
)

// classifyAtom resolves a raw atom lexeme into a datum. Booleans win over
// everything, then colon-marked keywords, then integers; what remains is a
// symbol, unless it starts like a number without being one.
func classifyAtom(tok token.Token) (*value.Value, error) {
	text := tok.Text

	switch text {
	case "#t", "#true":
		return value.True, nil
	case "#f", "#false":
		return value.False, nil
	}

	if len(text) > 1 {
		if text[0] == ':' {
			return value.NewKeyword(text[1:]), nil
		}
		if text[len(text)-1] == ':' {
			return value.NewTrailingKeyword(text[:len(text)-1]), nil
		}
	}

	if value.IsNumberLexeme(text) {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, &Error{Code: ErrInvalidNumber, Pos: tok.Start, Detail: "'" + text + "'"}
		}
		return value.NewInt(n), nil
	}
	if leadsWithDigit(text) {
		return nil, &Error{Code: ErrInvalidNumber, Pos: tok.Start, Detail: "'" + text + "'"}
	}

	return value.SymbolOf(text), nil
}

func leadsWithDigit(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
