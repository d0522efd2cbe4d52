package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestEnvOuterLookupAndErrors(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("x", NumberValue(1))
	inner := NewEnv(outer)

	val, err := inner.Get("x")
	if err != nil || val.Number() != 1 {
		t.Fatalf("expected inner lookup to reach outer binding, got %v err=%v", val, err)
	}

	inner.Set("x", NumberValue(2))
	if val, _ := outer.Get("x"); val.Number() != 1 {
		t.Fatalf("Set on inner must not touch outer, got %v", val)
	}
	if inner.Find("x") != inner {
		t.Fatalf("expected Find to return the innermost binding env")
	}
	if inner.Find("missing") != nil {
		t.Fatalf("expected Find to return nil for unbound names")
	}

	_, err = inner.Get("missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	if inner.Outer() != outer {
		t.Fatalf("expected Outer to expose enclosing environment")
	}
}

func TestEnvNames(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("b", Nil)
	outer.Set("a", Nil)
	inner := NewEnv(outer)
	inner.Set("a", True)
	inner.Set("c", True)

	got := strings.Join(inner.Names(), " ")
	if got != "a b c" {
		t.Fatalf("expected sorted distinct names, got %q", got)
	}
}

func TestBind(t *testing.T) {
	params := List(SymbolValue("a"), SymbolValue("b"))

	env, err := Bind(nil, params, []Value{NumberValue(1), NumberValue(2)})
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if a, _ := env.Get("a"); a.Number() != 1 {
		t.Fatalf("expected a=1, got %v", a)
	}

	if _, err := Bind(nil, params, []Value{NumberValue(1)}); err == nil {
		t.Fatal("expected error for too few arguments")
	}
	if _, err := Bind(nil, params, []Value{NumberValue(1), NumberValue(2), NumberValue(3)}); err == nil {
		t.Fatal("expected error for too many arguments")
	}

	variadic := VectorValue([]Value{SymbolValue("&"), SymbolValue("rest")})
	env, err = Bind(nil, variadic, []Value{NumberValue(1), NumberValue(2)})
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if rest, _ := env.Get("rest"); rest.Type != TypeList || rest.String() != "(1 2)" {
		t.Fatalf("expected rest=(1 2), got %v", rest)
	}

	if _, err := Bind(nil, List(SymbolValue("&")), nil); err == nil {
		t.Fatal("expected error for dangling &")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		val      Value
		readably string
		plain    string
	}{
		{"nil", Nil, "nil", "nil"},
		{"bools", List(True, False), "(true false)", "(true false)"},
		{"negative", NumberValue(-7), "-7", "-7"},
		{"string", StringValue("a\"b\n\\"), `"a\"b\n\\"`, "a\"b\n\\"},
		{"keyword", KeywordValue("kw"), ":kw", ":kw"},
		{"vector", VectorValue([]Value{NumberValue(1), StringValue("x")}), `[1 "x"]`, "[1 x]"},
		{"hash-map", HashMapValue([]Value{KeywordValue("a"), NumberValue(1)}), "{:a 1}", "{:a 1}"},
		{"nested", List(List(), VectorValue(nil)), "(() [])", "(() [])"},
		{"atom", AtomValue(NumberValue(3)), "(atom 3)", "(atom 3)"},
		{"function", PrimitiveValue("f", nil), FunctionPlaceholder, FunctionPlaceholder},
		{"closure", ClosureValue(List(), Nil, nil), FunctionPlaceholder, FunctionPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.val, true); got != tt.readably {
				t.Fatalf("readable: expected %q, got %q", tt.readably, got)
			}
			if got := Render(tt.val, false); got != tt.plain {
				t.Fatalf("plain: expected %q, got %q", tt.plain, got)
			}
		})
	}
}

func TestStringTokenKeepsSourceForm(t *testing.T) {
	s := StringToken("a\\qb", `"a\qb"`)
	if s.Str() != "a\\qb" {
		t.Fatalf("unexpected text %q", s.Str())
	}
	if got := s.String(); got != `"a\qb"` {
		t.Fatalf("expected source token, got %q", got)
	}
}

func TestEqual(t *testing.T) {
	atom := AtomValue(Nil)
	fn := PrimitiveValue("f", nil)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers", NumberValue(1), NumberValue(1), true},
		{"different-numbers", NumberValue(1), NumberValue(2), false},
		{"strings", StringValue("x"), StringToken("x", `"x"`), true},
		{"string-vs-symbol", StringValue("x"), SymbolValue("x"), false},
		{"symbol-vs-keyword", SymbolValue(":x"), KeywordValue("x"), false},
		{"list-vs-vector", List(NumberValue(1)), VectorValue([]Value{NumberValue(1)}), true},
		{"nested", List(List(Nil)), List(VectorValue([]Value{Nil})), true},
		{"lengths", List(NumberValue(1)), List(), false},
		{"nil-vs-empty", Nil, List(), false},
		{"maps-any-order",
			HashMapValue([]Value{KeywordValue("a"), NumberValue(1), KeywordValue("b"), NumberValue(2)}),
			HashMapValue([]Value{KeywordValue("b"), NumberValue(2), KeywordValue("a"), NumberValue(1)}),
			true},
		{"maps-shadowed",
			HashMapValue([]Value{KeywordValue("a"), NumberValue(0), KeywordValue("a"), NumberValue(1)}),
			HashMapValue([]Value{KeywordValue("a"), NumberValue(1)}),
			true},
		{"atom-identity", atom, atom, true},
		{"atoms-distinct", AtomValue(Nil), AtomValue(Nil), false},
		{"functions", fn, fn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestHashMapOperations(t *testing.T) {
	a, b := KeywordValue("a"), KeywordValue("b")
	m := HashMapValue([]Value{a, NumberValue(1)})

	updated := MapAssoc(m, []Value{b, NumberValue(2), a, NumberValue(3)})
	if got, _ := MapGet(updated, a); got.Number() != 3 {
		t.Fatalf("expected latest value for :a, got %v", got)
	}
	if got, _ := MapGet(m, a); got.Number() != 1 {
		t.Fatalf("MapAssoc must not modify the original, got %v", got)
	}
	if got := ListValue(MapKeys(updated)).String(); got != "(:b :a)" {
		t.Fatalf("expected distinct keys, got %s", got)
	}
	if got := ListValue(MapVals(updated)).String(); got != "(2 3)" {
		t.Fatalf("expected visible values, got %s", got)
	}

	removed := MapDissoc(updated, []Value{a, KeywordValue("zzz")})
	if _, ok := MapGet(removed, a); ok {
		t.Fatal("expected :a to be removed")
	}
	if got := removed.String(); got != "{:b 2}" {
		t.Fatalf("unexpected map after dissoc: %s", got)
	}
	if _, ok := MapGet(m, NumberValue(1)); ok {
		t.Fatal("values must not be found as keys")
	}
}

func TestMetaCopies(t *testing.T) {
	list := List(NumberValue(1))
	tagged, err := list.WithMeta(KeywordValue("m"))
	if err != nil {
		t.Fatalf("WithMeta error: %v", err)
	}
	if tagged.Meta().String() != ":m" {
		t.Fatalf("expected meta :m, got %v", tagged.Meta())
	}
	if list.Meta().Type != TypeNil {
		t.Fatalf("original list meta changed to %v", list.Meta())
	}
	if !Equal(list, tagged) {
		t.Fatal("metadata must not affect equality")
	}

	if _, err := NumberValue(1).WithMeta(Nil); err == nil {
		t.Fatal("expected error attaching metadata to a number")
	}

	fn := ClosureValue(List(), Nil, nil)
	macro := fn.AsMacro()
	if fn.IsMacro() || !macro.IsMacro() {
		t.Fatal("AsMacro must return a flagged copy")
	}
	if macro.TypeName() != "macro" {
		t.Fatalf("unexpected type name %q", macro.TypeName())
	}
}

func TestQuasiquoteExpand(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"symbol", SymbolValue("a"), "(quote a)"},
		{"number", NumberValue(1), "1"},
		{"unquote", List(SymbolValue("unquote"), SymbolValue("x")), "x"},
		{"list", List(SymbolValue("a"), List(SymbolValue("unquote"), SymbolValue("b"))),
			"(cons (quote a) (cons b ()))"},
		{"splice", List(List(SymbolValue("splice-unquote"), SymbolValue("xs")), NumberValue(1)),
			"(concat xs (cons 1 ()))"},
		{"vector", VectorValue([]Value{NumberValue(1)}), "(vec (cons 1 ()))"},
		{"map", HashMapValue([]Value{KeywordValue("k"), SymbolValue("v")}), "(quote {:k v})"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuasiquoteExpand(tt.in).String(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestThrownErrorMessage(t *testing.T) {
	err := Throwf("index %d out of range", 4)
	if err.Error() != `"index 4 out of range"` {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var thrown *ThrownError
	if !errors.As(err, &thrown) || thrown.Value.Str() != "index 4 out of range" {
		t.Fatalf("expected string payload, got %v", err)
	}
}
