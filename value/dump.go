package value

// Dump returns a structural description of v as a plain S-expression, with
// every piece of text spelled out as character codes. It makes otherwise
// invisible distinctions (symbol vs. string vs. keyword, char vs. integer)
// explicit, which helps when debugging reader behavior.
func (v *Value) Dump() *Value {
	switch v.t {
	case TypeBool:
		if v.Bool() {
			return SymbolOf("true")
		}
		return SymbolOf("false")
	case TypeInt:
		return NewList(SymbolOf("integer"), v)
	case TypeChar:
		return NewList(SymbolOf("integer->char"), NewInt64(int64(v.Char())))
	case TypeString:
		return textDump("string", v.Text())
	case TypeSymbol:
		return textDump("symbol", v.Symbol().Name())
	case TypeKeyword:
		if v.KeywordTrailing() {
			return textDump("keyword2", v.Text())
		}
		return textDump("keyword1", v.Text())
	case TypeList, TypeImproperList, TypeVector:
		label := "list"
		switch v.t {
		case TypeImproperList:
			label = "improper-list"
		case TypeVector:
			label = "vector"
		}
		elems := []*Value{SymbolOf(label)}
		for _, e := range v.List() {
			elems = append(elems, e.Dump())
		}
		if v.t == TypeImproperList {
			elems = append(elems, v.tail.Dump())
		}
		return NewList(elems...)
	}
	return NewList(SymbolOf("invalid"))
}

func textDump(label, text string) *Value {
	elems := []*Value{SymbolOf(label)}
	for _, r := range text {
		elems = append(elems, NewInt64(int64(r)))
	}
	return NewList(elems...)
}
