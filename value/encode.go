package value

import (
	"fmt"
	"strings"
	"unicode"
)

// charNames maps the R7RS character names; see CharName.
var charNames = map[rune]string{
	'\a': "alarm",
	'\b': "backspace",
	0x7F: "delete",
	0x1B: "escape",
	'\n': "newline",
	0:    "null",
	'\r': "return",
	' ':  "space",
	'\t': "tab",
}

// CharName returns the character's name when it has one ("newline" for
// '\n'), or false.
func CharName(r rune) (string, bool) {
	name, ok := charNames[r]
	return name, ok
}

// EncodeChar renders r as a readable character literal: a named form where
// one exists, the character itself when printable, a hex escape otherwise.
func EncodeChar(r rune) string {
	if name, ok := charNames[r]; ok {
		return "#\\" + name
	}
	if unicode.IsPrint(r) {
		return "#\\" + string(r)
	}
	return fmt.Sprintf("#\\x%X", r)
}

// EncodeString renders s as a double-quoted literal with all non-printable
// characters escaped.
func EncodeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(escapeIn(r, '"'))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeIn(r, delim rune) string {
	switch r {
	case '\\':
		return "\\\\"
	case delim:
		return "\\" + string(delim)
	case '\a':
		return "\\a"
	case '\b':
		return "\\b"
	case '\t':
		return "\\t"
	case '\n':
		return "\\n"
	case '\r':
		return "\\r"
	case '\v':
		return "\\v"
	case '\f':
		return "\\f"
	}
	if !unicode.IsPrint(r) {
		return fmt.Sprintf("\\x%X;", r)
	}
	return string(r)
}

// EncodeSymbol renders a symbol name so that reading it back yields the
// same symbol: bare when the name survives as a single plain lexeme,
// |…|-quoted otherwise.
func EncodeSymbol(name string) string {
	if isBareSymbol(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('|')
	for _, r := range name {
		b.WriteString(escapeIn(r, '|'))
	}
	b.WriteByte('|')
	return b.String()
}

// EncodeKeyword renders a keyword name with its colon marker, falling
// back to #:|…| when the name does not survive as a plain lexeme. The
// fallback always reads back as a leading keyword; a trailing spelling
// has no quoted form.
func EncodeKeyword(name string, trailing bool) string {
	if isBareSymbol(name) && !strings.HasPrefix(name, ":") && !strings.HasSuffix(name, ":") {
		if trailing {
			return name + ":"
		}
		return ":" + name
	}
	var b strings.Builder
	b.WriteString("#:|")
	for _, r := range name {
		b.WriteString(escapeIn(r, '|'))
	}
	b.WriteByte('|')
	return b.String()
}

// isBareSymbol reports whether name reads back as a single Symbol atom
// without |…| quoting.
func isBareSymbol(name string) bool {
	if name == "" || name == "." {
		return false
	}
	if name[0] == '#' || IsNumberLexeme(name) || leadsLikeNumber(name) {
		return false
	}
	// a bare leading or trailing colon reads back as a keyword
	if len(name) > 1 && (name[0] == ':' || name[len(name)-1] == ':') {
		return false
	}
	for _, r := range name {
		if !isBareRune(r) {
			return false
		}
	}
	return true
}

// isBareRune mirrors the characters that end an atom during tokenizing.
func isBareRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', '|', '\'', '`', ',', ';', '\\':
		return false
	}
	return true
}

// IsNumberLexeme reports whether s is an integer literal: an optional sign
// followed by one or more ASCII digits, nothing else.
func IsNumberLexeme(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// leadsLikeNumber reports whether s starts with a digit after an optional
// sign. Such lexemes are rejected as symbols even when they are not valid
// numbers.
func leadsLikeNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// String renders the value in its external form, suitable for reading
// back.
func (v *Value) String() string {
	switch v.t {
	case TypeBool:
		if v.Bool() {
			return "#t"
		}
		return "#f"
	case TypeInt:
		return v.Int().String()
	case TypeChar:
		return EncodeChar(v.Char())
	case TypeString:
		return EncodeString(v.Text())
	case TypeSymbol:
		return EncodeSymbol(v.Symbol().Name())
	case TypeKeyword:
		return EncodeKeyword(v.Text(), v.KeywordTrailing())
	case TypeList, TypeImproperList, TypeVector:
		var b strings.Builder
		if v.t == TypeVector {
			b.WriteString("#(")
		} else {
			b.WriteByte('(')
		}
		for i, e := range v.List() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(e.String())
		}
		if v.t == TypeImproperList {
			b.WriteString(" . ")
			b.WriteString(v.tail.String())
		}
		b.WriteByte(')')
		return b.String()
	}
	return "#<invalid>"
}
