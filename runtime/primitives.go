package runtime

import (
	"fmt"
	"time"

	"github.com/sergev/malgo/lang"
)

func installPrimitives(ev *lang.Evaluator, host *Host) {
	env := ev.Global
	define := func(name string, fn lang.Primitive) {
		env.Set(name, lang.PrimitiveValue(name, fn))
	}

	define("+", arithmetic("+", func(a, b int64) int64 { return a + b }))
	define("-", arithmetic("-", func(a, b int64) int64 { return a - b }))
	define("*", arithmetic("*", func(a, b int64) int64 { return a * b }))
	define("/", primDiv)

	define("=", primEqual)
	define("<", comparison(func(a, b int64) bool { return a < b }))
	define("<=", comparison(func(a, b int64) bool { return a <= b }))
	define(">", comparison(func(a, b int64) bool { return a > b }))
	define(">=", comparison(func(a, b int64) bool { return a >= b }))

	define("nil?", typePredicate("nil?", func(v lang.Value) bool { return v.Type == lang.TypeNil }))
	define("true?", typePredicate("true?", func(v lang.Value) bool { return v.Type == lang.TypeBool && v.Bool() }))
	define("false?", typePredicate("false?", func(v lang.Value) bool { return v.Type == lang.TypeBool && !v.Bool() }))
	define("symbol?", typePredicate("symbol?", func(v lang.Value) bool { return v.Type == lang.TypeSymbol }))
	define("keyword?", typePredicate("keyword?", func(v lang.Value) bool { return v.Type == lang.TypeKeyword }))
	define("string?", typePredicate("string?", func(v lang.Value) bool { return v.Type == lang.TypeString }))
	define("number?", typePredicate("number?", func(v lang.Value) bool { return v.Type == lang.TypeNumber }))
	define("fn?", typePredicate("fn?", func(v lang.Value) bool { return v.IsFunction() && !v.IsMacro() }))
	define("macro?", typePredicate("macro?", lang.Value.IsMacro))
	define("atom?", typePredicate("atom?", func(v lang.Value) bool { return v.Type == lang.TypeAtom }))

	define("symbol", primSymbol)
	define("keyword", primKeyword)
	define("gensym", newGensym())

	define("atom", primAtom)
	define("deref", primDeref)
	define("reset!", primReset)
	define("swap!", primSwap)

	define("meta", primMeta)
	define("with-meta", primWithMeta)

	define("throw", primThrow)
	define("apply", primApply)
	define("map", primMap)
	define("eval", primEval)
	define("time-ms", primTimeMs)

	installSequences(define)
	installMaps(define)
	host.install(define)
}

func arithmetic(name string, op func(a, b int64) int64) lang.Primitive {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		a, b, err := twoNumbers(name, args)
		if err != nil {
			return lang.Value{}, err
		}
		return lang.NumberValue(op(a, b)), nil
	}
}

func primDiv(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	a, b, err := twoNumbers("/", args)
	if err != nil {
		return lang.Value{}, err
	}
	if b == 0 {
		return lang.Value{}, fmt.Errorf("/: division by zero")
	}
	return lang.NumberValue(a / b), nil
}

func twoNumbers(name string, args []lang.Value) (int64, int64, error) {
	if err := checkArity(name, args, 2); err != nil {
		return 0, 0, err
	}
	for _, arg := range args {
		if arg.Type != lang.TypeNumber {
			return 0, 0, typeError(name, "number", arg)
		}
	}
	return args[0].Number(), args[1].Number(), nil
}

// comparison yields false rather than a type error for non-numbers.
func comparison(cmp func(a, b int64) bool) lang.Primitive {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if len(args) != 2 || args[0].Type != lang.TypeNumber || args[1].Type != lang.TypeNumber {
			return lang.False, nil
		}
		return lang.BoolValue(cmp(args[0].Number(), args[1].Number())), nil
	}
}

func primEqual(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("=", args, 2); err != nil {
		return lang.Value{}, err
	}
	return lang.BoolValue(lang.Equal(args[0], args[1])), nil
}

func primSymbol(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("symbol", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("symbol", "string", args[0])
	}
	return lang.SymbolValue(args[0].Str()), nil
}

func primKeyword(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("keyword", args, 1); err != nil {
		return lang.Value{}, err
	}
	switch args[0].Type {
	case lang.TypeKeyword:
		return args[0], nil
	case lang.TypeString:
		return lang.KeywordValue(args[0].Str()), nil
	default:
		return lang.Value{}, typeError("keyword", "string", args[0])
	}
}

func newGensym() lang.Primitive {
	var counter int64
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := checkArity("gensym", args, 0); err != nil {
			return lang.Value{}, err
		}
		counter++
		return lang.SymbolValue(fmt.Sprintf("G__%d", counter)), nil
	}
}

func primAtom(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("atom", args, 1); err != nil {
		return lang.Value{}, err
	}
	return lang.AtomValue(args[0]), nil
}

func atomArg(name string, v lang.Value) (*lang.Atom, error) {
	a := v.Atom()
	if v.Type != lang.TypeAtom || a == nil {
		return nil, typeError(name, "atom", v)
	}
	return a, nil
}

func primDeref(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("deref", args, 1); err != nil {
		return lang.Value{}, err
	}
	a, err := atomArg("deref", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	return a.Value, nil
}

func primReset(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("reset!", args, 2); err != nil {
		return lang.Value{}, err
	}
	a, err := atomArg("reset!", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	a.Value = args[1]
	return args[1], nil
}

func primSwap(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, fmt.Errorf("swap! expects at least 2 arguments, got %d", len(args))
	}
	a, err := atomArg("swap!", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	fn := args[1]
	if !fn.IsFunction() {
		return lang.Value{}, typeError("swap!", "function", fn)
	}
	callArgs := append([]lang.Value{a.Value}, args[2:]...)
	val, err := ev.Apply(fn, callArgs)
	if err != nil {
		return lang.Value{}, err
	}
	a.Value = val
	return val, nil
}

func primMeta(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("meta", args, 1); err != nil {
		return lang.Value{}, err
	}
	return args[0].Meta(), nil
}

func primWithMeta(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("with-meta", args, 2); err != nil {
		return lang.Value{}, err
	}
	return args[0].WithMeta(args[1])
}

func primThrow(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("throw", args, 1); err != nil {
		return lang.Value{}, err
	}
	return lang.Value{}, lang.Throw(args[0])
}

func primApply(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, fmt.Errorf("apply expects at least 2 arguments, got %d", len(args))
	}
	fn := args[0]
	last := args[len(args)-1]
	lastArgs, err := seqArg("apply", last)
	if err != nil {
		return lang.Value{}, err
	}
	var callArgs []lang.Value
	callArgs = append(callArgs, args[1:len(args)-1]...)
	callArgs = append(callArgs, lastArgs...)
	return ev.Apply(fn, callArgs)
}

func primMap(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("map", args, 2); err != nil {
		return lang.Value{}, err
	}
	items, err := seqArg("map", args[1])
	if err != nil {
		return lang.Value{}, err
	}
	out := make([]lang.Value, 0, len(items))
	for _, item := range items {
		val, err := ev.Apply(args[0], []lang.Value{item})
		if err != nil {
			return lang.Value{}, err
		}
		out = append(out, val)
	}
	return lang.ListValue(out), nil
}

func primEval(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("eval", args, 1); err != nil {
		return lang.Value{}, err
	}
	return ev.Eval(args[0], nil)
}

func primTimeMs(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("time-ms", args, 0); err != nil {
		return lang.Value{}, err
	}
	return lang.NumberValue(time.Now().UnixMilli()), nil
}

func typePredicate(name string, pred func(lang.Value) bool) lang.Primitive {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := checkArity(name, args, 1); err != nil {
			return lang.Value{}, err
		}
		return lang.BoolValue(pred(args[0])), nil
	}
}

func checkArity(name string, args []lang.Value, n int) error {
	if len(args) != n {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		return fmt.Errorf("%s expects %d argument%s, got %d", name, n, plural, len(args))
	}
	return nil
}

func typeError(name, expected string, got lang.Value) error {
	return fmt.Errorf("%s expects %s, got %s", name, expected, got.TypeName())
}
