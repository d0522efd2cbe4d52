package lang

// Hash-maps are flat key/value entry slices. Lookups scan from the end so
// the most recent assoc wins; storage may hold shadowed duplicates.

// MapGet returns the most recent value stored under key.
func MapGet(m Value, key Value) (Value, bool) {
	entries := m.Items()
	for i := len(entries) - 2; i >= 0; i -= 2 {
		if Equal(entries[i], key) {
			return entries[i+1], true
		}
	}
	return Nil, false
}

// MapEntries returns the visible entries of m, one per distinct key, in the
// order of each key's most recent write.
func MapEntries(m Value) []Value {
	entries := m.Items()
	var rev []Value
	for i := len(entries) - 2; i >= 0; i -= 2 {
		key := entries[i]
		if containsKey(rev, key) {
			continue
		}
		rev = append(rev, key, entries[i+1])
	}
	out := make([]Value, 0, len(rev))
	for i := len(rev) - 2; i >= 0; i -= 2 {
		out = append(out, rev[i], rev[i+1])
	}
	return out
}

// MapKeys returns the distinct keys of m.
func MapKeys(m Value) []Value {
	entries := MapEntries(m)
	keys := make([]Value, 0, len(entries)/2)
	for i := 0; i < len(entries); i += 2 {
		keys = append(keys, entries[i])
	}
	return keys
}

// MapVals returns the visible values of m, aligned with MapKeys.
func MapVals(m Value) []Value {
	entries := MapEntries(m)
	vals := make([]Value, 0, len(entries)/2)
	for i := 1; i < len(entries); i += 2 {
		vals = append(vals, entries[i])
	}
	return vals
}

// MapAssoc appends key/value pairs to a copy of m's entries.
func MapAssoc(m Value, kvs []Value) Value {
	entries := m.Items()
	out := make([]Value, 0, len(entries)+len(kvs))
	out = append(out, entries...)
	out = append(out, kvs...)
	return HashMapValue(out)
}

// MapDissoc rebuilds m without any entry whose key equals one of keys.
func MapDissoc(m Value, keys []Value) Value {
	entries := MapEntries(m)
	out := make([]Value, 0, len(entries))
	for i := 0; i < len(entries); i += 2 {
		if indexOf(keys, entries[i]) >= 0 {
			continue
		}
		out = append(out, entries[i], entries[i+1])
	}
	return HashMapValue(out)
}

func containsKey(entries []Value, key Value) bool {
	for i := 0; i < len(entries); i += 2 {
		if Equal(entries[i], key) {
			return true
		}
	}
	return false
}

func indexOf(vals []Value, v Value) int {
	for i, cur := range vals {
		if Equal(cur, v) {
			return i
		}
	}
	return -1
}
