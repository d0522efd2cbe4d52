package lang

// QuasiquoteExpand rewrites a quasiquoted form into plain calls to cons,
// concat, vec and quote. Nothing is evaluated.
func QuasiquoteExpand(ast Value) Value {
	if arg, ok := taggedForm(ast, "unquote"); ok {
		return arg
	}
	switch ast.Type {
	case TypeList, TypeVector:
		items := ast.Items()
		result := List()
		for i := len(items) - 1; i >= 0; i-- {
			elt := items[i]
			if arg, ok := taggedForm(elt, "splice-unquote"); ok {
				result = List(SymbolValue("concat"), arg, result)
				continue
			}
			result = List(SymbolValue("cons"), QuasiquoteExpand(elt), result)
		}
		if ast.Type == TypeVector {
			return List(SymbolValue("vec"), result)
		}
		return result
	case TypeHashMap, TypeSymbol:
		return List(SymbolValue("quote"), ast)
	default:
		return ast
	}
}

// taggedForm matches (tag x) and returns x.
func taggedForm(v Value, tag string) (Value, bool) {
	if v.Type != TypeList {
		return Value{}, false
	}
	items := v.Items()
	if len(items) == 0 || !items[0].IsSymbolNamed(tag) {
		return Value{}, false
	}
	if len(items) < 2 {
		return Nil, true
	}
	return items[1], true
}
