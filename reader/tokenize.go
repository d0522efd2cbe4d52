package reader

import (
	"strings"
	"unicode"
)

const specialChars = "[]{}()'`~^@"

// Tokenize splits source text into tokens. Comments are returned as
// tokens starting with ';'. Commas act as whitespace.
func Tokenize(src string) ([]string, error) {
	rs := []rune(src)
	var tokens []string
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r) || r == ',':
			i++
		case r == '~' && i+1 < len(rs) && rs[i+1] == '@':
			tokens = append(tokens, "~@")
			i += 2
		case strings.ContainsRune(specialChars, r):
			tokens = append(tokens, string(r))
			i++
		case r == '"':
			tok, next, err := scanString(rs, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case r == ';':
			j := i + 1
			for j < len(rs) && rs[j] != '\n' {
				j++
			}
			tokens = append(tokens, string(rs[i:j]))
			i = j
		default:
			j := i + 1
			for j < len(rs) && isAtomRune(rs[j]) {
				j++
			}
			tokens = append(tokens, string(rs[i:j]))
			i = j
		}
	}
	return tokens, nil
}

// scanString consumes a string literal starting at the opening quote and
// returns the raw token, escapes included.
func scanString(rs []rune, start int) (string, int, error) {
	var b strings.Builder
	b.WriteRune('"')
	i := start + 1
	for i < len(rs) {
		r := rs[i]
		switch r {
		case '\\':
			if i+1 >= len(rs) {
				return "", 0, newIncompleteError("expected escaped character, got EOF")
			}
			b.WriteRune(r)
			b.WriteRune(rs[i+1])
			i += 2
		case '"':
			b.WriteRune(r)
			return b.String(), i + 1, nil
		default:
			b.WriteRune(r)
			i++
		}
	}
	return "", 0, newIncompleteError("unterminated string, expected '\"', got EOF")
}

func isAtomRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return !strings.ContainsRune(specialChars+"\",;", r)
}
