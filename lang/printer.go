package lang

import (
	"strconv"
	"strings"
)

// FunctionPlaceholder is how every callable prints.
const FunctionPlaceholder = "#<function>"

// Render produces the canonical textual form of v. When readably is set,
// strings print as their escaped source token; otherwise as raw text.
func Render(v Value, readably bool) string {
	var b strings.Builder
	render(&b, v, readably)
	return b.String()
}

func render(b *strings.Builder, v Value, readably bool) {
	switch v.Type {
	case TypeNil:
		b.WriteString("nil")
	case TypeBool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case TypeNumber:
		b.WriteString(strconv.FormatInt(v.Number(), 10))
	case TypeString:
		if readably {
			b.WriteString(v.Token())
		} else {
			b.WriteString(v.Str())
		}
	case TypeSymbol, TypeKeyword:
		b.WriteString(v.Sym())
	case TypeList:
		renderSeq(b, "(", ")", v.Items(), readably)
	case TypeVector:
		renderSeq(b, "[", "]", v.Items(), readably)
	case TypeHashMap:
		renderSeq(b, "{", "}", MapEntries(v), readably)
	case TypeAtom:
		b.WriteString("(atom ")
		render(b, v.Atom().Value, readably)
		b.WriteString(")")
	case TypePrimitive, TypeClosure:
		b.WriteString(FunctionPlaceholder)
	default:
		b.WriteString("<unknown>")
	}
}

func renderSeq(b *strings.Builder, open, close string, items []Value, readably bool) {
	b.WriteString(open)
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		render(b, item, readably)
	}
	b.WriteString(close)
}

// quoteString builds the readable token for text that did not come from
// source. Only backslash, double quote and newline are escaped, matching
// what the reader decodes.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
