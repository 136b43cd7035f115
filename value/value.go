package value

import (
	"math/big"
)

// Type represents all the possible types of a value.
type Type uint8

// List of value types.
const (
	TypeInvalid Type = iota

	TypeBool
	TypeInt
	TypeChar
	TypeString
	TypeSymbol
	TypeKeyword
	TypeList
	TypeImproperList
	TypeVector
)

var typeNames = map[Type]string{
	TypeInvalid:      "invalid",
	TypeBool:         "bool",
	TypeInt:          "int",
	TypeChar:         "char",
	TypeString:       "string",
	TypeSymbol:       "symbol",
	TypeKeyword:      "keyword",
	TypeList:         "list",
	TypeImproperList: "improper-list",
	TypeVector:       "vector",
}

func (t Type) String() string {
	if v, ok := typeNames[t]; ok {
		return v
	}
	return typeNames[TypeInvalid]
}

// Value is an immutable S-expression datum. Containers hold *Value
// elements; an improper list additionally carries a non-list tail after
// the dot.
type Value struct {
	t    Type
	v    interface{}
	tail *Value
}

// True and False are the only boolean values; NewBool returns one of them.
var (
	True  = &Value{t: TypeBool, v: true}
	False = &Value{t: TypeBool, v: false}
)

// NewBool returns the boolean value for b.
func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

// NewInt returns an integer value. The caller must not mutate i afterwards.
func NewInt(i *big.Int) *Value {
	return &Value{t: TypeInt, v: i}
}

// NewInt64 returns an integer value for i.
func NewInt64(i int64) *Value {
	return &Value{t: TypeInt, v: big.NewInt(i)}
}

// NewChar returns a character value.
func NewChar(r rune) *Value {
	return &Value{t: TypeChar, v: r}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{t: TypeString, v: s}
}

// NewSymbol returns a symbol value for the interned s.
func NewSymbol(s *Symbol) *Value {
	return &Value{t: TypeSymbol, v: s}
}

// SymbolOf interns name and returns it as a symbol value.
func SymbolOf(name string) *Value {
	return NewSymbol(Intern(name))
}

// keyword carries a keyword's name together with its spelling: ":name"
// when leading, "name:" when trailing. The two spellings are distinct
// keywords.
type keyword struct {
	name     string
	trailing bool
}

// NewKeyword returns a leading-colon keyword with the given name, marker
// excluded.
func NewKeyword(name string) *Value {
	return &Value{t: TypeKeyword, v: keyword{name: name}}
}

// NewTrailingKeyword returns a trailing-colon keyword ("name:").
func NewTrailingKeyword(name string) *Value {
	return &Value{t: TypeKeyword, v: keyword{name: name, trailing: true}}
}

// NewList returns a proper list of the given elements. The empty list is a
// value like any other.
func NewList(elems ...*Value) *Value {
	return &Value{t: TypeList, v: elems}
}

// NewVector returns a vector of the given elements.
func NewVector(elems ...*Value) *Value {
	return &Value{t: TypeVector, v: elems}
}

// NewImproperList returns the list of elems ended by tail instead of the
// empty list. A list tail is absorbed: its elements are appended and its
// own termination adopted, so the result never nests a list in tail
// position. With no elements the tail itself is returned.
func NewImproperList(elems []*Value, tail *Value) *Value {
	switch tail.t {
	case TypeList:
		joined := append(append([]*Value{}, elems...), tail.List()...)
		return NewList(joined...)
	case TypeImproperList:
		joined := append(append([]*Value{}, elems...), tail.List()...)
		elems, tail = joined, tail.tail
	}
	if len(elems) == 0 {
		return tail
	}
	return &Value{t: TypeImproperList, v: elems, tail: tail}
}

// Type returns the value's type.
func (v *Value) Type() Type {
	return v.t
}

// IsList reports whether the value is a proper list.
func (v *Value) IsList() bool {
	return v.t == TypeList
}

// Bool returns the boolean content. It panics on other types.
func (v *Value) Bool() bool {
	return v.v.(bool)
}

// Int returns the integer content. It panics on other types.
func (v *Value) Int() *big.Int {
	return v.v.(*big.Int)
}

// Char returns the character content. It panics on other types.
func (v *Value) Char() rune {
	return v.v.(rune)
}

// Text returns the content of a string or the name of a keyword. It panics
// on other types.
func (v *Value) Text() string {
	if k, ok := v.v.(keyword); ok {
		return k.name
	}
	return v.v.(string)
}

// KeywordTrailing reports whether a keyword uses the "name:" spelling. It
// panics on other types.
func (v *Value) KeywordTrailing() bool {
	return v.v.(keyword).trailing
}

// Symbol returns the interned symbol. It panics on other types.
func (v *Value) Symbol() *Symbol {
	return v.v.(*Symbol)
}

// List returns the elements of a list, improper list or vector. The slice
// is shared, not copied.
func (v *Value) List() []*Value {
	return v.v.([]*Value)
}

// Tail returns the datum after the dot of an improper list, nil otherwise.
func (v *Value) Tail() *Value {
	return v.tail
}

// Equal reports deep structural equality. Symbols compare by identity,
// integers by numeric value, containers element by element.
func (v *Value) Equal(o *Value) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil || v.t != o.t {
		return false
	}
	switch v.t {
	case TypeBool:
		return v.Bool() == o.Bool()
	case TypeInt:
		return v.Int().Cmp(o.Int()) == 0
	case TypeChar:
		return v.Char() == o.Char()
	case TypeString:
		return v.Text() == o.Text()
	case TypeKeyword:
		return v.v.(keyword) == o.v.(keyword)
	case TypeSymbol:
		return v.Symbol() == o.Symbol()
	case TypeList, TypeImproperList, TypeVector:
		a, b := v.List(), o.List()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		if v.t == TypeImproperList {
			return v.tail.Equal(o.tail)
		}
		return true
	}
	return false
}
