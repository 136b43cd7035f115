package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lispkit/sexp/token"
)

// kinds strips positions and texts, keeping the token type sequence.
func kinds(tokens []token.Token) []token.Type {
	out := make([]token.Type, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Type)
	}
	return out
}

func texts(tokens []token.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		In    string
		Types []token.Type
		Texts []string
	}{
		{
			In:    ``,
			Types: []token.Type{token.EOF},
			Texts: []string{""},
		},
		{
			In:    `foo`,
			Types: []token.Type{token.Atom, token.EOF},
			Texts: []string{"foo", ""},
		},
		{
			In:    `(+ 1 23)`,
			Types: []token.Type{token.Open, token.Atom, token.Atom, token.Atom, token.Close, token.EOF},
			Texts: []string{"(", "+", "1", "23", ")", ""},
		},
		{
			In:    `[a {b} c]`,
			Types: []token.Type{token.Open, token.Atom, token.Open, token.Atom, token.Close, token.Atom, token.Close, token.EOF},
			Texts: []string{"[", "a", "{", "b", "}", "c", "]", ""},
		},
		{
			In:    `"hello world"`,
			Types: []token.Type{token.String, token.EOF},
			Texts: []string{"hello world", ""},
		},
		{
			In:    `"a\nb\t\"c\""`,
			Types: []token.Type{token.String, token.EOF},
			Texts: []string{"a\nb\t\"c\"", ""},
		},
		{
			In:    `"\x41;\x42;"`,
			Types: []token.Type{token.String, token.EOF},
			Texts: []string{"AB", ""},
		},
		{
			In:    `"é\U0001F600"`,
			Types: []token.Type{token.String, token.EOF},
			Texts: []string{"é\U0001F600", ""},
		},
		{
			In:    "\"a\\\n   b\"",
			Types: []token.Type{token.String, token.EOF},
			Texts: []string{"ab", ""},
		},
		{
			In:    `|hello world|`,
			Types: []token.Type{token.Symbol, token.EOF},
			Texts: []string{"hello world", ""},
		},
		{
			In:    `|a\|b|`,
			Types: []token.Type{token.Symbol, token.EOF},
			Texts: []string{"a|b", ""},
		},
		{
			In:    `'foo`,
			Types: []token.Type{token.Quote, token.Atom, token.EOF},
			Texts: []string{"'", "foo", ""},
		},
		{
			In:    "`(a ,b ,@c)",
			Types: []token.Type{token.Quasiquote, token.Open, token.Atom, token.Unquote, token.Atom, token.UnquoteSplicing, token.Atom, token.Close, token.EOF},
			Texts: []string{"`", "(", "a", ",", "b", ",@", "c", ")", ""},
		},
		{
			In:    `(a . b)`,
			Types: []token.Type{token.Open, token.Atom, token.Dot, token.Atom, token.Close, token.EOF},
			Texts: []string{"(", "a", ".", "b", ")", ""},
		},
		{
			In:    `a.b ...`,
			Types: []token.Type{token.Atom, token.Atom, token.EOF},
			Texts: []string{"a.b", "...", ""},
		},
		{
			In:    `#(1 2)`,
			Types: []token.Type{token.Open, token.Atom, token.Atom, token.Close, token.EOF},
			Texts: []string{"#(", "1", "2", ")", ""},
		},
		{
			In:    `#t #f #true #false`,
			Types: []token.Type{token.Atom, token.Atom, token.Atom, token.Atom, token.EOF},
			Texts: []string{"#t", "#f", "#true", "#false", ""},
		},
		{
			In:    `#\a #\space #\x41`,
			Types: []token.Type{token.Char, token.Char, token.Char, token.EOF},
			Texts: []string{"a", " ", "A", ""},
		},
		{
			In:    `#\(`,
			Types: []token.Type{token.Char, token.EOF},
			Texts: []string{"(", ""},
		},
		{
			In:    `#:foo #:|two words|`,
			Types: []token.Type{token.Keyword, token.Keyword, token.EOF},
			Texts: []string{"foo", "two words", ""},
		},
		{
			In:    `:foo bar:`,
			Types: []token.Type{token.Atom, token.Atom, token.EOF},
			Texts: []string{":foo", "bar:", ""},
		},
		{
			In:    `#;(a b) c`,
			Types: []token.Type{token.DatumComment, token.Open, token.Atom, token.Atom, token.Close, token.Atom, token.EOF},
			Texts: []string{"#;", "(", "a", "b", ")", "c", ""},
		},
		{
			In:    "a ; trailing comment\nb",
			Types: []token.Type{token.Atom, token.Atom, token.EOF},
			Texts: []string{"a", "b", ""},
		},
		{
			In:    `a #| nested #| deeper |# back |# b`,
			Types: []token.Type{token.Atom, token.Atom, token.EOF},
			Texts: []string{"a", "b", ""},
		},
	}

	for _, tc := range testCases {
		tokens, err := Tokenize([]byte(tc.In))
		assert.NoError(t, err, "input: %q", tc.In)
		assert.Equal(t, tc.Types, kinds(tokens), "input: %q", tc.In)
		assert.Equal(t, tc.Texts, texts(tokens), "input: %q", tc.In)
	}
}

func TestTokenizeErrors(t *testing.T) {
	testCases := []struct {
		In   string
		Code ErrorCode
		Pos  token.Position
	}{
		{
			In:   `"never closed`,
			Code: ErrUnterminatedString,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   "(\n  \"also\nnot closed",
			Code: ErrUnterminatedString,
			Pos:  token.Position{Line: 2, Column: 3, Offset: 4},
		},
		{
			In:   `|open`,
			Code: ErrUnterminatedString,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#| outer #| inner |#`,
			Code: ErrUnterminatedComment,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `"\q"`,
			Code: ErrInvalidEscape,
			Pos:  token.Position{Line: 1, Column: 3, Offset: 2},
		},
		{
			In:   `"\xZZ;"`,
			Code: ErrInvalidEscape,
			Pos:  token.Position{Line: 1, Column: 4, Offset: 3},
		},
		{
			In:   `#\frobnicate`,
			Code: ErrInvalidCharLiteral,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#\`,
			Code: ErrInvalidCharLiteral,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#nope`,
			Code: ErrInvalidHashToken,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#: foo`,
			Code: ErrInvalidHashToken,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#:(a)`,
			Code: ErrInvalidHashToken,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
		{
			In:   `#:`,
			Code: ErrInvalidHashToken,
			Pos:  token.Position{Line: 1, Column: 1, Offset: 0},
		},
	}

	for _, tc := range testCases {
		_, err := Tokenize([]byte(tc.In))
		if assert.Error(t, err, "input: %q", tc.In) {
			lexErr, ok := err.(*Error)
			if assert.True(t, ok, "input: %q, got %T", tc.In, err) {
				assert.Equal(t, tc.Code, lexErr.Code, "input: %q", tc.In)
				assert.Equal(t, tc.Pos, lexErr.Pos, "input: %q", tc.In)
			}
		}
	}
}

func TestColumnAndLines(t *testing.T) {
	in := "(ab \"cd\"\n  ef)"

	tokens, err := Tokenize([]byte(in))
	assert.NoError(t, err)

	expected := []struct {
		Type  token.Type
		Start token.Position
		End   token.Position
	}{
		{token.Open, token.Position{Line: 1, Column: 1, Offset: 0}, token.Position{Line: 1, Column: 2, Offset: 1}},
		{token.Atom, token.Position{Line: 1, Column: 2, Offset: 1}, token.Position{Line: 1, Column: 4, Offset: 3}},
		{token.String, token.Position{Line: 1, Column: 5, Offset: 4}, token.Position{Line: 1, Column: 9, Offset: 8}},
		{token.Atom, token.Position{Line: 2, Column: 3, Offset: 11}, token.Position{Line: 2, Column: 5, Offset: 13}},
		{token.Close, token.Position{Line: 2, Column: 5, Offset: 13}, token.Position{Line: 2, Column: 6, Offset: 14}},
		{token.EOF, token.Position{Line: 2, Column: 6, Offset: 14}, token.Position{Line: 2, Column: 6, Offset: 14}},
	}

	if assert.Len(t, tokens, len(expected)) {
		for i, want := range expected {
			assert.Equal(t, want.Type, tokens[i].Type, "token %d", i)
			assert.Equal(t, want.Start, tokens[i].Start, "token %d", i)
			assert.Equal(t, want.End, tokens[i].End, "token %d", i)
		}
	}
}

func TestMultibytePositions(t *testing.T) {
	// é is two bytes, 😀 is four; columns count characters, offsets bytes
	tokens, err := Tokenize([]byte("é 😀"))
	assert.NoError(t, err)

	if assert.Len(t, tokens, 3) {
		assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Start)
		assert.Equal(t, token.Position{Line: 1, Column: 2, Offset: 2}, tokens[0].End)
		assert.Equal(t, token.Position{Line: 1, Column: 3, Offset: 3}, tokens[1].Start)
		assert.Equal(t, token.Position{Line: 1, Column: 4, Offset: 7}, tokens[1].End)
	}
}

func TestIncrementalResume(t *testing.T) {
	in := `(foo "ba\x72;" #\x 12)`

	want, err := Tokenize([]byte(in))
	assert.NoError(t, err)

	// feeding one byte at a time must produce the same tokens, with
	// ErrMoreInput in between and never a partial token
	lx := NewIncremental(nil)
	var got []token.Token
	for i := 0; i < len(in); i++ {
		lx.Feed([]byte{in[i]})
		for {
			tok, err := lx.Next()
			if err == ErrMoreInput {
				break
			}
			assert.NoError(t, err)
			got = append(got, tok)
		}
	}
	lx.Close()
	for {
		tok, err := lx.Next()
		assert.NoError(t, err)
		got = append(got, tok)
		if tok.Is(token.EOF) {
			break
		}
	}

	assert.Equal(t, want, got)
}

func TestIncrementalEOFIdempotent(t *testing.T) {
	lx := NewIncremental(nil)
	lx.Feed([]byte("a"))
	lx.Close()

	tok, err := lx.Next()
	assert.NoError(t, err)
	assert.Equal(t, token.Atom, tok.Type)

	for i := 0; i < 3; i++ {
		tok, err = lx.Next()
		assert.NoError(t, err)
		assert.True(t, tok.Is(token.EOF))
	}
}

func TestRetainTrivia(t *testing.T) {
	syn := R7RS()
	syn.RetainWhitespace = true
	syn.RetainComments = true

	tokens, err := TokenizeSyntax([]byte("a ;x\n#|y|# b"), syn)
	assert.NoError(t, err)

	assert.Equal(t, []token.Type{
		token.Atom, token.Whitespace, token.LineComment, token.Whitespace,
		token.BlockComment, token.Whitespace, token.Atom, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, "x", tokens[2].Text)
	assert.Equal(t, "y", tokens[4].Text)
}

func TestSyntaxDialects(t *testing.T) {
	// octal escapes are a Gambit extension
	_, err := TokenizeSyntax([]byte(`"\101"`), R7RS())
	assert.Error(t, err)

	tokens, err := TokenizeSyntax([]byte(`"\101"`), Gambit())
	assert.NoError(t, err)
	assert.Equal(t, "A", tokens[0].Text)

	// Gambit \x escapes have no terminating semicolon
	tokens, err = TokenizeSyntax([]byte(`"\x41B"`), Gambit())
	assert.NoError(t, err)
	assert.Equal(t, "Л", tokens[0].Text)

	// Guile caps \x at two digits
	tokens, err = TokenizeSyntax([]byte(`"\x41;"`), Guile())
	assert.NoError(t, err)
	assert.Equal(t, "A", tokens[0].Text)

	// long booleans are not Gambit syntax
	_, err = TokenizeSyntax([]byte(`#true`), Gambit())
	assert.Error(t, err)

	// #:keywords read as symbols when the dialect has no keywords
	tokens, err = TokenizeSyntax([]byte(`#:foo`), Gambit())
	assert.NoError(t, err)
	assert.Equal(t, token.Symbol, tokens[0].Type)
	assert.Equal(t, "foo", tokens[0].Text)
}
