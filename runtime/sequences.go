package runtime

import (
	"github.com/sergev/malgo/lang"
)

func installSequences(define func(string, lang.Primitive)) {
	define("list", primList)
	define("list?", typePredicate("list?", func(v lang.Value) bool { return v.Type == lang.TypeList }))
	define("vector", primVector)
	define("vector?", typePredicate("vector?", func(v lang.Value) bool { return v.Type == lang.TypeVector }))
	define("sequential?", typePredicate("sequential?", lang.Value.IsSequential))
	define("vec", primVec)
	define("cons", primCons)
	define("concat", primConcat)
	define("nth", primNth)
	define("first", primFirst)
	define("rest", primRest)
	define("empty?", primEmpty)
	define("count", primCount)
	define("seq", primSeq)
	define("conj", primConj)
}

// seqArg returns the elements of a list or vector. Nil counts as empty.
func seqArg(name string, v lang.Value) ([]lang.Value, error) {
	switch v.Type {
	case lang.TypeList, lang.TypeVector:
		return v.Items(), nil
	case lang.TypeNil:
		return nil, nil
	default:
		return nil, typeError(name, "list or vector", v)
	}
}

func copyItems(items []lang.Value) []lang.Value {
	out := make([]lang.Value, len(items))
	copy(out, items)
	return out
}

func primList(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.ListValue(copyItems(args)), nil
}

func primVector(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.VectorValue(copyItems(args)), nil
}

func primVec(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("vec", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type == lang.TypeVector {
		return args[0], nil
	}
	items, err := seqArg("vec", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	return lang.VectorValue(copyItems(items)), nil
}

func primCons(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("cons", args, 2); err != nil {
		return lang.Value{}, err
	}
	tail, err := seqArg("cons", args[1])
	if err != nil {
		return lang.Value{}, err
	}
	out := make([]lang.Value, 0, len(tail)+1)
	out = append(out, args[0])
	out = append(out, tail...)
	return lang.ListValue(out), nil
}

func primConcat(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	out := []lang.Value{}
	for _, arg := range args {
		items, err := seqArg("concat", arg)
		if err != nil {
			return lang.Value{}, err
		}
		out = append(out, items...)
	}
	return lang.ListValue(out), nil
}

func primNth(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("nth", args, 2); err != nil {
		return lang.Value{}, err
	}
	items, err := seqArg("nth", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	if args[1].Type != lang.TypeNumber {
		return lang.Value{}, typeError("nth", "number", args[1])
	}
	idx := args[1].Number()
	if idx < 0 || idx >= int64(len(items)) {
		return lang.Value{}, lang.Throwf("nth: index %d out of range", idx)
	}
	return items[idx], nil
}

func primFirst(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("first", args, 1); err != nil {
		return lang.Value{}, err
	}
	items := args[0].Items()
	if !args[0].IsSequential() || len(items) == 0 {
		return lang.Nil, nil
	}
	return items[0], nil
}

func primRest(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("rest", args, 1); err != nil {
		return lang.Value{}, err
	}
	items := args[0].Items()
	if !args[0].IsSequential() || len(items) == 0 {
		return lang.List(), nil
	}
	return lang.ListValue(copyItems(items[1:])), nil
}

func primEmpty(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("empty?", args, 1); err != nil {
		return lang.Value{}, err
	}
	v := args[0]
	switch v.Type {
	case lang.TypeList, lang.TypeVector:
		return lang.BoolValue(len(v.Items()) == 0), nil
	case lang.TypeNil:
		return lang.True, nil
	default:
		return lang.False, nil
	}
}

func primCount(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("count", args, 1); err != nil {
		return lang.Value{}, err
	}
	if !args[0].IsSequential() {
		return lang.NumberValue(0), nil
	}
	return lang.NumberValue(int64(len(args[0].Items()))), nil
}

func primSeq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("seq", args, 1); err != nil {
		return lang.Value{}, err
	}
	v := args[0]
	switch v.Type {
	case lang.TypeList, lang.TypeVector:
		if len(v.Items()) == 0 {
			return lang.Nil, nil
		}
		return v, nil
	case lang.TypeString:
		if v.Str() == "" {
			return lang.Nil, nil
		}
		var chars []lang.Value
		for _, r := range v.Str() {
			chars = append(chars, lang.StringValue(string(r)))
		}
		return lang.ListValue(chars), nil
	case lang.TypeNil:
		return lang.Nil, nil
	default:
		return v, nil
	}
}

// primConj prepends to lists, so the added items end up reversed, and
// appends to vectors.
func primConj(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, checkArity("conj", args, 1)
	}
	coll := args[0]
	extra := args[1:]
	items, err := seqArg("conj", coll)
	if err != nil {
		return lang.Value{}, err
	}
	out := make([]lang.Value, 0, len(items)+len(extra))
	if coll.Type == lang.TypeVector {
		out = append(out, items...)
		out = append(out, extra...)
		return lang.VectorValue(out), nil
	}
	for i := len(extra) - 1; i >= 0; i-- {
		out = append(out, extra[i])
	}
	out = append(out, items...)
	return lang.ListValue(out), nil
}
