package lexer

// Syntax selects the S-expression dialect accepted by the Lexer. The zero
// value is not useful; start from one of the presets and adjust fields on
// the returned copy.
type Syntax struct {
	// Name of the dialect, for diagnostics.
	Name string

	// DottedPairs turns a lone "." lexeme into a Dot token instead of a
	// plain atom.
	DottedPairs bool

	// OctalEscapes accepts \NNN octal escapes (up to three digits) inside
	// strings and |…| symbols.
	OctalEscapes bool

	// XEscapeSemicolon requires \x escapes to be terminated by a
	// semicolon, R7RS style (`\x41;`). When false, \x reads up to
	// XEscapeMaxDigits hex digits and stops at the first non-digit.
	XEscapeSemicolon bool

	// XEscapeMaxDigits caps the number of hex digits in a \x escape.
	XEscapeMaxDigits int

	// LongBooleans accepts #true and #false in addition to #t and #f.
	LongBooleans bool

	// HashColonKeywords reads #:name as a keyword; when false the name is
	// read as a plain symbol instead.
	HashColonKeywords bool

	// RetainWhitespace emits whitespace runs as tokens instead of
	// skipping them. The parser ignores such tokens; they exist for
	// consumers that reproduce input verbatim.
	RetainWhitespace bool

	// RetainComments emits line and block comments as tokens instead of
	// discarding them.
	RetainComments bool
}

// R7RS returns the syntax described by the R7RS-small report.
func R7RS() *Syntax {
	return &Syntax{
		Name:              "R7RS",
		DottedPairs:       true,
		OctalEscapes:      false,
		XEscapeSemicolon:  true,
		XEscapeMaxDigits:  8,
		LongBooleans:      true,
		HashColonKeywords: true,
	}
}

// Gambit returns the syntax accepted by Gambit Scheme.
func Gambit() *Syntax {
	return &Syntax{
		Name:              "Gambit",
		DottedPairs:       true,
		OctalEscapes:      true,
		XEscapeSemicolon:  false,
		XEscapeMaxDigits:  8,
		LongBooleans:      false,
		HashColonKeywords: false,
	}
}

// Guile returns the syntax accepted by GNU Guile.
func Guile() *Syntax {
	return &Syntax{
		Name:              "Guile",
		DottedPairs:       true,
		OctalEscapes:      false,
		XEscapeSemicolon:  true,
		XEscapeMaxDigits:  2,
		LongBooleans:      true,
		HashColonKeywords: true,
	}
}
