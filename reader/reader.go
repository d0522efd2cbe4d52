package reader

import (
	"strconv"
	"strings"

	"github.com/sergev/malgo/lang"
)

// Read parses the first form in src. It returns ErrNoInput when src holds
// nothing but whitespace and comments.
func Read(src string) (lang.Value, error) {
	rd, err := newTokenReader(src)
	if err != nil {
		return lang.Value{}, err
	}
	if rd.done() {
		return lang.Value{}, ErrNoInput
	}
	return readForm(rd)
}

// ReadString parses all forms from a string. It returns ErrNoInput when
// there are none.
func ReadString(src string) ([]lang.Value, error) {
	rd, err := newTokenReader(src)
	if err != nil {
		return nil, err
	}
	if rd.done() {
		return nil, ErrNoInput
	}
	var values []lang.Value
	for !rd.done() {
		val, err := readForm(rd)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

type tokenReader struct {
	tokens []string
	pos    int
}

func newTokenReader(src string) (*tokenReader, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, ";") {
			kept = append(kept, tok)
		}
	}
	return &tokenReader{tokens: kept}, nil
}

func (rd *tokenReader) done() bool {
	return rd.pos >= len(rd.tokens)
}

func (rd *tokenReader) peek() (string, bool) {
	if rd.done() {
		return "", false
	}
	return rd.tokens[rd.pos], true
}

func (rd *tokenReader) next() (string, bool) {
	tok, ok := rd.peek()
	if ok {
		rd.pos++
	}
	return tok, ok
}

var readerMacros = map[string]string{
	"'":  "quote",
	"`":  "quasiquote",
	"~":  "unquote",
	"~@": "splice-unquote",
	"@":  "deref",
}

func readForm(rd *tokenReader) (lang.Value, error) {
	tok, ok := rd.peek()
	if !ok {
		return lang.Value{}, newIncompleteError("expected a form, got EOF")
	}
	switch tok {
	case "(":
		return readSeq(rd, ")", lang.ListValue)
	case "[":
		return readSeq(rd, "]", lang.VectorValue)
	case "{":
		return readSeq(rd, "}", lang.HashMapValue)
	case ")", "]", "}":
		return lang.Value{}, newSyntaxError("unexpected '%s'", tok)
	case "^":
		rd.next()
		meta, err := readForm(rd)
		if err != nil {
			return lang.Value{}, err
		}
		val, err := readForm(rd)
		if err != nil {
			return lang.Value{}, err
		}
		return lang.List(lang.SymbolValue("with-meta"), val, meta), nil
	}
	if name, ok := readerMacros[tok]; ok {
		rd.next()
		form, err := readForm(rd)
		if err != nil {
			return lang.Value{}, err
		}
		return lang.List(lang.SymbolValue(name), form), nil
	}
	rd.next()
	return readAtom(tok)
}

func readSeq(rd *tokenReader, closeTok string, build func([]lang.Value) lang.Value) (lang.Value, error) {
	rd.next()
	elems := []lang.Value{}
	for {
		tok, ok := rd.peek()
		if !ok {
			return lang.Value{}, newIncompleteError("expected '%s', got EOF", closeTok)
		}
		if tok == closeTok {
			rd.next()
			break
		}
		elem, err := readForm(rd)
		if err != nil {
			return lang.Value{}, err
		}
		elems = append(elems, elem)
	}
	if closeTok == "}" && len(elems)%2 != 0 {
		return lang.Value{}, newSyntaxError("map literal must contain an even number of forms")
	}
	return build(elems), nil
}

func readAtom(tok string) (lang.Value, error) {
	switch {
	case isInteger(tok):
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return lang.Value{}, newSyntaxError("number out of range: %s", tok)
		}
		return lang.NumberValue(n), nil
	case strings.HasPrefix(tok, `"`):
		return readString(tok)
	case strings.HasPrefix(tok, ":"):
		return lang.KeywordValue(tok), nil
	}
	switch tok {
	case "nil":
		return lang.Nil, nil
	case "true":
		return lang.True, nil
	case "false":
		return lang.False, nil
	}
	return lang.SymbolValue(tok), nil
}

func isInteger(tok string) bool {
	digits := tok
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// readString decodes \", \n and \\. Any other escape keeps both characters.
func readString(tok string) (lang.Value, error) {
	if len(tok) < 2 || !strings.HasSuffix(tok, `"`) {
		return lang.Value{}, newIncompleteError("unterminated string, expected '\"', got EOF")
	}
	body := tok[1 : len(tok)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case '"':
				b.WriteByte('"')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return lang.StringToken(b.String(), tok), nil
}
