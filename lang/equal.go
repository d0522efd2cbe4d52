package lang

// Equal reports deep structural equality. Lists and vectors with pairwise
// equal elements are equal regardless of tag. Functions are never equal;
// atoms compare by identity.
func Equal(a, b Value) bool {
	if a.IsSequential() && b.IsSequential() {
		return equalItems(a.Items(), b.Items())
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeString:
		return a.Str() == b.Str()
	case TypeSymbol, TypeKeyword:
		return a.Sym() == b.Sym()
	case TypeHashMap:
		return equalMaps(a, b)
	case TypeAtom:
		return a.Atom() == b.Atom()
	case TypePrimitive, TypeClosure:
		return false
	default:
		return false
	}
}

func equalItems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalMaps(a, b Value) bool {
	ae := MapEntries(a)
	be := MapEntries(b)
	if len(ae) != len(be) {
		return false
	}
	for i := 0; i < len(ae); i += 2 {
		other, ok := MapGet(b, ae[i])
		if !ok || !Equal(ae[i+1], other) {
			return false
		}
	}
	return true
}
