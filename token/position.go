package token

import (
	"fmt"
	"unicode/utf8"
)

// Position points at a character in the input stream. Line and Column are
// 1-based; Offset is the byte offset of the character's first encoded byte.
type Position struct {
	Line   int
	Column int
	Offset int
}

// StartPosition returns the position of the first character of a stream.
func StartPosition() Position {
	return Position{Line: 1, Column: 1, Offset: 0}
}

// Advance returns the position of the character following r. A newline
// starts a new line and resets the column; every other character advances
// the column by one. The byte offset always grows by the encoded length
// of r, so positions never regress.
func (p Position) Advance(r rune) Position {
	p.Offset += utf8.RuneLen(r)
	if r == '\n' {
		p.Line++
		p.Column = 1
		return p
	}
	p.Column++
	return p
}

// IsValid returns true for positions produced by a tracker, false for the
// zero value.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
