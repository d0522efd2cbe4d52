package runtime

import (
	"math"
	"strings"
	"testing"

	"github.com/sergev/malgo/lang"
)

func TestArithmetic(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(+ 1 2)", "3"},
		{"(- 1 5)", "-4"},
		{"(* -3 4)", "-12"},
		{"(/ 7 2)", "3"},
		{"(/ -7 2)", "-3"},
		{"(+ (* 2 3) (- 10 4))", "12"},
	})
}

func TestArithmeticErrors(t *testing.T) {
	ev, _ := newTestRuntime("")

	if _, err := primDiv(ev, []lang.Value{lang.NumberValue(4), lang.NumberValue(0)}); err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("expected division by zero error, got %v", err)
	}

	add := arithmetic("+", func(a, b int64) int64 { return a + b })
	if _, err := add(ev, []lang.Value{lang.NumberValue(1)}); err == nil {
		t.Fatal("expected arity error")
	}
	if _, err := add(ev, []lang.Value{lang.NumberValue(1), lang.StringValue("2")}); err == nil || !strings.Contains(err.Error(), "expects number") {
		t.Fatalf("expected type error, got %v", err)
	}

	val, err := add(ev, []lang.Value{lang.NumberValue(math.MaxInt64), lang.NumberValue(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Number() != math.MinInt64 {
		t.Fatalf("expected wrap-around, got %v", val)
	}
}

func TestComparisonsAndEquality(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(< 1 2)", "true"},
		{"(< 2 1)", "false"},
		{"(<= 2 2)", "true"},
		{"(> 3 2)", "true"},
		{"(>= 1 2)", "false"},
		{"(< \"a\" 1)", "false"},
		{"(= 1 1)", "true"},
		{"(= '(1 2) [1 2])", "true"},
		{"(= {:a [1]} {:a '(1)})", "true"},
		{"(= \"a\" 'a)", "false"},
		{"(= nil '())", "false"},
		{"(= :a :a)", "true"},
	})
}

func TestTypePredicates(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(nil? nil)", "true"},
		{"(nil? false)", "false"},
		{"(true? true)", "true"},
		{"(true? 1)", "false"},
		{"(false? false)", "true"},
		{"(false? nil)", "false"},
		{"(symbol? 'a)", "true"},
		{"(symbol? \"a\")", "false"},
		{"(keyword? :a)", "true"},
		{"(string? \"a\")", "true"},
		{"(string? :a)", "false"},
		{"(number? 1)", "true"},
		{"(fn? +)", "true"},
		{"(fn? (fn* () 1))", "true"},
		{"(fn? cond)", "false"},
		{"(macro? cond)", "true"},
		{"(macro? +)", "false"},
		{"(atom? (atom 1))", "true"},
		{"(list? '(1))", "true"},
		{"(list? [1])", "false"},
		{"(vector? [1])", "true"},
		{"(sequential? [1])", "true"},
		{"(sequential? \"abc\")", "false"},
		{"(map? {})", "true"},
		{"(map? [])", "false"},
	})
}

func TestSymbolsAndKeywords(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(symbol \"abc\")", "abc"},
		{"(keyword \"abc\")", ":abc"},
		{"(keyword :abc)", ":abc"},
		{"(= (keyword \"a\") :a)", "true"},
	})

	ev, _ := newTestRuntime("")
	first := mustEvalString(t, ev, "(gensym)")
	second := mustEvalString(t, ev, "(gensym)")
	if first.Type != lang.TypeSymbol || lang.Equal(first, second) {
		t.Fatalf("expected distinct symbols, got %v and %v", first, second)
	}
}

func TestAtoms(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(def! a (atom 1)) (deref a)", "1"},
		{"(def! a (atom 1)) @a", "1"},
		{"(def! a (atom 1)) (reset! a 5)", "5"},
		{"(def! a (atom 1)) (swap! a + 10) @a", "11"},
		{"(def! a (atom [])) (swap! a (fn* (v x y) (conj v x y)) 1 2)", "[1 2]"},
		{"(def! a (atom 1)) a", "(atom 1)"},
		{"(def! a (atom 1)) (def! f (fn* () @a)) (reset! a 2) (f)", "2"},
	})

	ev, _ := newTestRuntime("")
	if _, err := EvaluateString(ev, "(deref 1)"); err == nil {
		t.Fatal("expected error dereferencing a non-atom")
	}
	if _, err := EvaluateString(ev, "(swap! (atom 1) 2)"); err == nil {
		t.Fatal("expected error swapping with a non-function")
	}
}

func TestApplyAndMap(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(apply + '(1 2))", "3"},
		{"(apply + 1 [2])", "3"},
		{"(apply list 1 2 '(3 4))", "(1 2 3 4)"},
		{"(apply (fn* (& xs) (count xs)) [])", "0"},
		{"(map (fn* (x) (* x x)) [1 2 3])", "(1 4 9)"},
		{"(map symbol? '(a 1))", "(true false)"},
		{"(map + [])", "()"},
	})

	ev, _ := newTestRuntime("")
	_, err := EvaluateString(ev, "(map (fn* (x) (throw x)) [7])")
	expectThrown(t, err, "7")
}

func TestMetadata(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"(meta [1])", "nil"},
		{"(meta (with-meta [1] {:a 1}))", "{:a 1}"},
		{"(meta ^{:b 2} [1])", "{:b 2}"},
		{"(def! v [1]) (with-meta v :m) (meta v)", "nil"},
		{"(meta (with-meta (fn* () 1) \"doc\"))", "\"doc\""},
		{"(meta (with-meta + 1))", "1"},
		{"(meta +)", "nil"},
		{"(= [1] (with-meta [1] :m))", "true"},
		{"((with-meta (fn* (x) (* x 2)) :m) 4)", "8"},
	})

	ev, _ := newTestRuntime("")
	if _, err := EvaluateString(ev, "(with-meta 1 :m)"); err == nil {
		t.Fatal("expected error attaching metadata to a number")
	}
}

func TestThrowPayloads(t *testing.T) {
	ev, _ := newTestRuntime("")
	_, err := EvaluateString(ev, "(throw [1 \"two\"])")
	expectThrown(t, err, "[1 two]")
	if got := FormatError(err); got != `Error: [1 "two"]` {
		t.Fatalf("unexpected formatted error %q", got)
	}
}

func TestTimeMs(t *testing.T) {
	ev, _ := newTestRuntime("")
	val := mustEvalString(t, ev, "(time-ms)")
	if val.Type != lang.TypeNumber || val.Number() <= 0 {
		t.Fatalf("expected positive milliseconds, got %v", val)
	}
}

func TestCheckArity(t *testing.T) {
	if err := checkArity("f", nil, 1); err == nil || err.Error() != "f expects 1 argument, got 0" {
		t.Fatalf("unexpected error %v", err)
	}
	if err := checkArity("f", []lang.Value{lang.Nil}, 2); err == nil || err.Error() != "f expects 2 arguments, got 1" {
		t.Fatalf("unexpected error %v", err)
	}
	if err := checkArity("f", nil, 0); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
