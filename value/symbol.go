package value

import "sync"

// Symbol is an interned identifier. Two symbols with the same name are the
// same pointer, so equality is a pointer comparison.
type Symbol struct {
	name string
}

// Name returns the symbol's name.
func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) String() string {
	return s.name
}

var symbols sync.Map // string -> *Symbol

// Intern returns the canonical *Symbol for name, creating it on first use.
// It is safe for concurrent use.
func Intern(name string) *Symbol {
	if s, ok := symbols.Load(name); ok {
		return s.(*Symbol)
	}
	s, _ := symbols.LoadOrStore(name, &Symbol{name: name})
	return s.(*Symbol)
}
