package lexer

import (
	"bytes"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/lispkit/sexp/token"
)

type stateFn func(*Lexer) stateFn

type escapeMode uint8

const (
	escNone  escapeMode = iota
	escExact            // exactly escMax hex digits (\uXXXX, \UXXXXXXXX)
	escFlex             // up to escMax hex digits, stop at first non-digit
	escDelim            // hex digits up to escMax, terminated by ';'
)

// Lexer converts a character stream into positioned tokens. It is a
// suspendable state machine: Next either returns a token, returns
// ErrMoreInput when an incrementally-fed source runs dry mid-token (the
// in-flight state and its buffers are kept, never a partial token), or
// returns a terminal error. When backed by an io.Reader, suspension is
// invisible and Next blocks on the reader instead.
type Lexer struct {
	dec *Decoder
	syn *Syntax

	state   stateFn
	waiting bool
	err     error
	queue   []token.Token

	pos   token.Position // position of the next unread character
	start token.Position // start of the token being scanned
	buf   []rune         // raw lexeme accumulator

	// delimited scanning: strings, |symbols|, #:|keywords|
	str      []rune
	strDelim rune
	strEmit  token.Type

	// numeric escapes inside delimited scanning
	escMode escapeMode
	escMax  int
	escVal  uint32
	escSeen int

	// block comments
	depth  int
	bcPrev rune
}

// New returns a Lexer reading from r with R7RS syntax.
func New(r io.Reader) *Lexer {
	return NewWithSyntax(r, R7RS())
}

// NewWithSyntax returns a Lexer reading from r with the given syntax.
func NewWithSyntax(r io.Reader, syn *Syntax) *Lexer {
	return &Lexer{
		dec:   NewReaderDecoder(r),
		syn:   syn,
		state: lexDefault,
		pos:   token.StartPosition(),
		start: token.StartPosition(),
	}
}

// NewIncremental returns a push-mode Lexer; the caller supplies bytes with
// Feed and signals end of input with Close. A nil syn means R7RS.
func NewIncremental(syn *Syntax) *Lexer {
	if syn == nil {
		syn = R7RS()
	}
	return &Lexer{
		dec:   NewDecoder(),
		syn:   syn,
		state: lexDefault,
		pos:   token.StartPosition(),
		start: token.StartPosition(),
	}
}

// Syntax returns the dialect configuration the Lexer was built with.
func (lx *Lexer) Syntax() *Syntax {
	return lx.syn
}

// Feed appends raw bytes to an incrementally-fed Lexer.
func (lx *Lexer) Feed(p []byte) {
	lx.dec.Feed(p)
}

// Close marks the byte source of an incrementally-fed Lexer as exhausted.
func (lx *Lexer) Close() {
	lx.dec.Close()
}

// Next produces the next token. At the end of input it returns an EOF
// token, and keeps returning it on further calls. Errors are terminal
// except ErrMoreInput, which only asks for another Feed.
func (lx *Lexer) Next() (token.Token, error) {
	for {
		if len(lx.queue) > 0 {
			t := lx.queue[0]
			lx.queue = lx.queue[1:]
			return t, nil
		}
		if lx.err != nil {
			return token.Token{}, lx.err
		}
		if lx.state == nil {
			return token.Token{Type: token.EOF, Start: lx.pos, End: lx.pos}, nil
		}
		lx.state = lx.state(lx)
		if lx.waiting {
			lx.waiting = false
			return token.Token{}, ErrMoreInput
		}
	}
}

// hold suspends the state machine without consuming anything; Next reports
// ErrMoreInput and re-enters resume once more bytes have been fed.
func (lx *Lexer) hold(resume stateFn) stateFn {
	lx.waiting = true
	return resume
}

func (lx *Lexer) fail(err error) stateFn {
	lx.err = err
	return nil
}

func (lx *Lexer) failAt(code ErrorCode, pos token.Position) stateFn {
	return lx.fail(errorAt(code, pos))
}

func (lx *Lexer) peek() (rune, error) {
	return lx.dec.Peek()
}

// read consumes the next character into the lexeme buffer. It must only be
// called after a successful peek.
func (lx *Lexer) read() rune {
	r, err := lx.dec.Next()
	if err != nil {
		panic("lexer: read without successful peek")
	}
	lx.buf = append(lx.buf, r)
	lx.pos = lx.pos.Advance(r)
	return r
}

// skipRune consumes r (already peeked) without buffering it.
func (lx *Lexer) skipRune(r rune) {
	if _, err := lx.dec.Next(); err != nil {
		panic("lexer: skip without successful peek")
	}
	lx.pos = lx.pos.Advance(r)
}

func (lx *Lexer) emit(tt token.Type) {
	lx.emitText(tt, string(lx.buf))
}

func (lx *Lexer) emitText(tt token.Type, text string) {
	lx.queue = append(lx.queue, token.Token{
		Type:  tt,
		Text:  text,
		Start: lx.start,
		End:   lx.pos,
	})
	lx.buf = lx.buf[:0]
	lx.start = lx.pos
}

func (lx *Lexer) emitBracket(tt token.Type, b token.Bracket) {
	lx.queue = append(lx.queue, token.Token{
		Type:    tt,
		Bracket: b,
		Text:    string(lx.buf),
		Start:   lx.start,
		End:     lx.pos,
	})
	lx.buf = lx.buf[:0]
	lx.start = lx.pos
}

// drop discards the current lexeme without emitting a token.
func (lx *Lexer) drop() {
	lx.buf = lx.buf[:0]
	lx.start = lx.pos
}

func (lx *Lexer) beginDelimited(delim rune, emit token.Type) {
	lx.str = lx.str[:0]
	lx.strDelim = delim
	lx.strEmit = emit
}

// isAtomRune reports whether r can appear in an unquoted atom lexeme.
// Whitespace, brackets, string and symbol delimiters, quote markers,
// comment introducers and the backslash all break an atom; '#' is special
// only at token start and stays valid inside.
func isAtomRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', '|', '\'', '`', ',', ';', '\\':
		return false
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func hexDigit(r rune) (uint32, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint32(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint32(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint32(r-'A') + 10, true
	}
	return 0, false
}

func lexDefault(lx *Lexer) stateFn {
	r, err := lx.peek()
	switch {
	case err == ErrMoreInput:
		return lx.hold(lexDefault)
	case err == io.EOF:
		lx.start = lx.pos
		lx.emit(token.EOF)
		return nil
	case err != nil:
		return lx.fail(err)
	}

	lx.start = lx.pos

	switch {
	case unicode.IsSpace(r):
		if lx.syn.RetainWhitespace {
			lx.read()
			return lexWhitespace
		}
		lx.skipRune(r)
		lx.start = lx.pos
		return lexDefault

	case r == '(':
		lx.read()
		lx.emitBracket(token.Open, token.Round)
		return lexDefault
	case r == ')':
		lx.read()
		lx.emitBracket(token.Close, token.Round)
		return lexDefault
	case r == '[':
		lx.read()
		lx.emitBracket(token.Open, token.Square)
		return lexDefault
	case r == ']':
		lx.read()
		lx.emitBracket(token.Close, token.Square)
		return lexDefault
	case r == '{':
		lx.read()
		lx.emitBracket(token.Open, token.Curly)
		return lexDefault
	case r == '}':
		lx.read()
		lx.emitBracket(token.Close, token.Curly)
		return lexDefault

	case r == '"':
		lx.read()
		lx.beginDelimited('"', token.String)
		return lexDelimited
	case r == '|':
		lx.read()
		lx.beginDelimited('|', token.Symbol)
		return lexDelimited

	case r == ';':
		lx.read()
		return lexLineComment
	case r == '#':
		lx.read()
		return lexHash

	case r == '\'':
		lx.read()
		lx.emit(token.Quote)
		return lexDefault
	case r == '`':
		lx.read()
		lx.emit(token.Quasiquote)
		return lexDefault
	case r == ',':
		lx.read()
		return lexUnquote

	default:
		lx.read()
		return lexAtom
	}
}

func lexWhitespace(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexWhitespace)
		case err == io.EOF:
			lx.emit(token.Whitespace)
			return lexDefault
		case err != nil:
			return lx.fail(err)
		}
		if !unicode.IsSpace(r) {
			lx.emit(token.Whitespace)
			return lexDefault
		}
		lx.read()
	}
}

func lexAtom(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexAtom)
		case err == io.EOF:
			return lexAtomEnd(lx)
		case err != nil:
			return lx.fail(err)
		}
		if !isAtomRune(r) {
			return lexAtomEnd(lx)
		}
		lx.read()
	}
}

func lexAtomEnd(lx *Lexer) stateFn {
	if lx.syn.DottedPairs && len(lx.buf) == 1 && lx.buf[0] == '.' {
		lx.emit(token.Dot)
		return lexDefault
	}
	lx.emit(token.Atom)
	return lexDefault
}

// lexDelimited scans the body of a string, |symbol| or #:|keyword| up to
// the unescaped closing delimiter.
func lexDelimited(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexDelimited)
		case err == io.EOF:
			return lx.failAt(ErrUnterminatedString, lx.start)
		case err != nil:
			return lx.fail(err)
		}
		lx.read()
		switch r {
		case '\\':
			return lexEscape
		case lx.strDelim:
			lx.emitText(lx.strEmit, string(lx.str))
			return lexDefault
		default:
			lx.str = append(lx.str, r)
		}
	}
}

func lexEscape(lx *Lexer) stateFn {
	r, err := lx.peek()
	switch {
	case err == ErrMoreInput:
		return lx.hold(lexEscape)
	case err == io.EOF:
		return lx.failAt(ErrUnterminatedString, lx.start)
	case err != nil:
		return lx.fail(err)
	}
	pos := lx.pos
	lx.read()

	var simple rune
	switch r {
	case 'a':
		simple = '\a'
	case 'b':
		simple = '\b'
	case 't':
		simple = '\t'
	case 'n':
		simple = '\n'
	case 'r':
		simple = '\r'
	case 'v':
		simple = '\v'
	case 'f':
		simple = '\f'
	case '\\', '\'', '"', '|':
		simple = r
	case 'x':
		if lx.syn.XEscapeSemicolon {
			lx.escMode = escDelim
		} else {
			lx.escMode = escFlex
		}
		lx.escMax = lx.syn.XEscapeMaxDigits
		lx.escVal, lx.escSeen = 0, 0
		return lexEscapeHex
	case 'u':
		lx.escMode, lx.escMax = escExact, 4
		lx.escVal, lx.escSeen = 0, 0
		return lexEscapeHex
	case 'U':
		lx.escMode, lx.escMax = escExact, 8
		lx.escVal, lx.escSeen = 0, 0
		return lexEscapeHex
	case '\n':
		// line continuation: the newline and following whitespace are
		// swallowed
		return lexEscapeNewline
	default:
		if lx.syn.OctalEscapes && r >= '0' && r <= '7' {
			lx.escVal = uint32(r - '0')
			lx.escSeen = 1
			return lexEscapeOctal
		}
		if r == '0' {
			simple = 0
			break
		}
		return lx.fail(&Error{Code: ErrInvalidEscape, Pos: pos, Detail: "'\\" + string(r) + "'"})
	}
	lx.str = append(lx.str, simple)
	return lexDelimited
}

func (lx *Lexer) commitEscape(pos token.Position) stateFn {
	if lx.escVal > utf8.MaxRune || !utf8.ValidRune(rune(lx.escVal)) {
		return lx.fail(&Error{Code: ErrInvalidEscape, Pos: pos, Detail: "invalid code point"})
	}
	lx.str = append(lx.str, rune(lx.escVal))
	lx.escMode = escNone
	return lexDelimited
}

func lexEscapeHex(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexEscapeHex)
		case err == io.EOF:
			return lx.failAt(ErrUnterminatedString, lx.start)
		case err != nil:
			return lx.fail(err)
		}
		d, ok := hexDigit(r)
		if !ok {
			switch {
			case lx.escMode == escDelim && r == ';':
				lx.skipRune(r)
				return lx.commitEscape(lx.pos)
			case lx.escMode == escFlex && lx.escSeen > 0:
				// stop at the first non-digit, leave it unconsumed
				return lx.commitEscape(lx.pos)
			default:
				return lx.fail(&Error{Code: ErrInvalidEscape, Pos: lx.pos, Detail: "not a hex digit: '" + string(r) + "'"})
			}
		}
		if lx.escSeen == lx.escMax {
			if lx.escMode == escDelim {
				return lx.fail(&Error{Code: ErrInvalidEscape, Pos: lx.pos, Detail: "too many digits"})
			}
			// escFlex: cap reached, the digit belongs to the literal body
			return lx.commitEscape(lx.pos)
		}
		lx.skipRune(r)
		lx.escVal = lx.escVal*16 + d
		lx.escSeen++
		if lx.escMode == escExact && lx.escSeen == lx.escMax {
			return lx.commitEscape(lx.pos)
		}
	}
}

func lexEscapeOctal(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexEscapeOctal)
		case err == io.EOF:
			// the enclosing delimited scan reports the unterminated
			// literal
			return lx.commitEscape(lx.pos)
		case err != nil:
			return lx.fail(err)
		}
		if r < '0' || r > '7' || lx.escSeen == 3 {
			return lx.commitEscape(lx.pos)
		}
		lx.skipRune(r)
		lx.escVal = lx.escVal*8 + uint32(r-'0')
		lx.escSeen++
	}
}

func lexEscapeNewline(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexEscapeNewline)
		case err == io.EOF:
			return lx.failAt(ErrUnterminatedString, lx.start)
		case err != nil:
			return lx.fail(err)
		}
		if !unicode.IsSpace(r) {
			return lexDelimited
		}
		lx.skipRune(r)
	}
}

func lexLineComment(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexLineComment)
		case err == io.EOF:
			return lexLineCommentEnd(lx)
		case err != nil:
			return lx.fail(err)
		}
		if r == '\n' {
			return lexLineCommentEnd(lx)
		}
		lx.read()
	}
}

func lexLineCommentEnd(lx *Lexer) stateFn {
	if lx.syn.RetainComments {
		// comment body without the leading ';'
		lx.emitText(token.LineComment, string(lx.buf[1:]))
	} else {
		lx.drop()
	}
	return lexDefault
}

func lexHash(lx *Lexer) stateFn {
	r, err := lx.peek()
	switch {
	case err == ErrMoreInput:
		return lx.hold(lexHash)
	case err == io.EOF:
		return lx.failAt(ErrInvalidHashToken, lx.start)
	case err != nil:
		return lx.fail(err)
	}

	switch r {
	case '(':
		lx.read()
		lx.emitBracket(token.Open, token.Vector)
		return lexDefault
	case '\\':
		lx.read()
		return lexCharLiteral
	case ';':
		lx.read()
		lx.emit(token.DatumComment)
		return lexDefault
	case '|':
		lx.read()
		lx.depth = 1
		lx.bcPrev = 0
		return lexBlockComment
	case ':':
		lx.read()
		return lexHashColon
	default:
		return lexHashWord
	}
}

// lexHashWord scans the alphabetic tail of #t, #f, #true, #false.
func lexHashWord(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexHashWord)
		case err == io.EOF:
			return lexHashWordEnd(lx)
		case err != nil:
			return lx.fail(err)
		}
		if !isASCIILetter(r) {
			return lexHashWordEnd(lx)
		}
		lx.read()
	}
}

func lexHashWordEnd(lx *Lexer) stateFn {
	word := string(lx.buf)
	switch word {
	case "#t", "#f":
		lx.emit(token.Atom)
		return lexDefault
	case "#true", "#false":
		if lx.syn.LongBooleans {
			lx.emit(token.Atom)
			return lexDefault
		}
	}
	return lx.fail(&Error{Code: ErrInvalidHashToken, Pos: lx.start, Detail: "'" + word + "'"})
}

// lexCharLiteral scans the name part of a #\ literal: a single character,
// an R7RS character name, or an x/u/U hex code.
func lexCharLiteral(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexCharLiteral)
		case err == io.EOF:
			return lexCharLiteralEnd(lx)
		case err != nil:
			return lx.fail(err)
		}
		if !isAtomRune(r) {
			// a bare #\( or #\  names the delimiter itself
			if len(lx.buf) == 2 {
				lx.read()
			}
			return lexCharLiteralEnd(lx)
		}
		lx.read()
	}
}

func lexCharLiteralEnd(lx *Lexer) stateFn {
	body := string(lx.buf[2:]) // after #\
	c, ok := decodeCharLiteral(body)
	if !ok {
		return lx.fail(&Error{Code: ErrInvalidCharLiteral, Pos: lx.start, Detail: "'#\\" + body + "'"})
	}
	lx.emitText(token.Char, string(c))
	return lexDefault
}

func decodeCharLiteral(body string) (rune, bool) {
	runes := []rune(body)
	if len(runes) == 0 {
		return 0, false
	}
	if len(runes) == 1 {
		return runes[0], true
	}
	if runes[0] == 'x' || runes[0] == 'u' || runes[0] == 'U' {
		if len(runes) > 9 {
			return 0, false
		}
		var code uint32
		for _, r := range runes[1:] {
			d, ok := hexDigit(r)
			if !ok {
				return 0, false
			}
			code = code*16 + d
		}
		if code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return 0, false
		}
		return rune(code), true
	}
	return namedChar(body)
}

// namedChar resolves the R7RS character names.
func namedChar(name string) (rune, bool) {
	switch name {
	case "alarm":
		return '\a', true
	case "backspace":
		return '\b', true
	case "delete":
		return 0x7F, true
	case "escape":
		return 0x1B, true
	case "newline":
		return '\n', true
	case "null":
		return 0, true
	case "return":
		return '\r', true
	case "space":
		return ' ', true
	case "tab":
		return '\t', true
	}
	return 0, false
}

func lexHashColon(lx *Lexer) stateFn {
	r, err := lx.peek()
	switch {
	case err == ErrMoreInput:
		return lx.hold(lexHashColon)
	case err == io.EOF:
		return lx.fail(&Error{Code: ErrInvalidHashToken, Pos: lx.start, Detail: "end of input after '#:'"})
	case err != nil:
		return lx.fail(err)
	}
	if r == '|' {
		lx.read()
		lx.beginDelimited('|', lx.hashColonType())
		return lexDelimited
	}
	if !isAtomRune(r) {
		return lx.fail(&Error{Code: ErrInvalidHashToken, Pos: lx.start, Detail: "'" + string(r) + "' after '#:'"})
	}
	lx.read()
	return lexHashColonName
}

func lexHashColonName(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexHashColonName)
		case err == io.EOF:
			return lexHashColonEnd(lx)
		case err != nil:
			return lx.fail(err)
		}
		if !isAtomRune(r) {
			return lexHashColonEnd(lx)
		}
		lx.read()
	}
}

func lexHashColonEnd(lx *Lexer) stateFn {
	name := string(lx.buf[2:]) // after #:
	lx.emitText(lx.hashColonType(), name)
	return lexDefault
}

func (lx *Lexer) hashColonType() token.Type {
	if lx.syn.HashColonKeywords {
		return token.Keyword
	}
	return token.Symbol
}

func lexBlockComment(lx *Lexer) stateFn {
	for {
		r, err := lx.peek()
		switch {
		case err == ErrMoreInput:
			return lx.hold(lexBlockComment)
		case err == io.EOF:
			return lx.failAt(ErrUnterminatedComment, lx.start)
		case err != nil:
			return lx.fail(err)
		}
		lx.read()
		switch {
		case lx.bcPrev == '#' && r == '|':
			lx.depth++
			lx.bcPrev = 0
		case lx.bcPrev == '|' && r == '#':
			lx.depth--
			lx.bcPrev = 0
			if lx.depth == 0 {
				if lx.syn.RetainComments {
					body := string(lx.buf[2 : len(lx.buf)-2])
					lx.emitText(token.BlockComment, body)
				} else {
					lx.drop()
				}
				return lexDefault
			}
		default:
			lx.bcPrev = r
		}
	}
}

func lexUnquote(lx *Lexer) stateFn {
	r, err := lx.peek()
	switch {
	case err == ErrMoreInput:
		return lx.hold(lexUnquote)
	case err == io.EOF:
		lx.emit(token.Unquote)
		return lexDefault
	case err != nil:
		return lx.fail(err)
	}
	if r == '@' {
		lx.read()
		lx.emit(token.UnquoteSplicing)
	} else {
		lx.emit(token.Unquote)
	}
	return lexDefault
}

// Tokenize scans all tokens within in, including the trailing EOF token,
// or returns the first error.
func Tokenize(in []byte) ([]token.Token, error) {
	return TokenizeSyntax(in, R7RS())
}

// TokenizeSyntax is Tokenize with an explicit dialect.
func TokenizeSyntax(in []byte, syn *Syntax) ([]token.Token, error) {
	lx := NewWithSyntax(bytes.NewReader(in), syn)

	tokens := []token.Token{}
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Is(token.EOF) {
			return tokens, nil
		}
	}
}
