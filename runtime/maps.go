package runtime

import (
	"fmt"

	"github.com/sergev/malgo/lang"
)

func installMaps(define func(string, lang.Primitive)) {
	define("hash-map", primHashMap)
	define("map?", typePredicate("map?", func(v lang.Value) bool { return v.Type == lang.TypeHashMap }))
	define("assoc", primAssoc)
	define("dissoc", primDissoc)
	define("get", primGet)
	define("contains?", primContains)
	define("keys", primKeys)
	define("vals", primVals)
}

func mapArg(name string, v lang.Value) error {
	if v.Type != lang.TypeHashMap {
		return typeError(name, "hash-map", v)
	}
	return nil
}

func primHashMap(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args)%2 != 0 {
		return lang.Value{}, fmt.Errorf("hash-map expects an even number of arguments, got %d", len(args))
	}
	return lang.MapAssoc(lang.HashMapValue(nil), args), nil
}

func primAssoc(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, checkArity("assoc", args, 1)
	}
	if err := mapArg("assoc", args[0]); err != nil {
		return lang.Value{}, err
	}
	kvs := args[1:]
	if len(kvs)%2 != 0 {
		return lang.Value{}, fmt.Errorf("assoc expects key/value pairs, got %d extra arguments", len(kvs))
	}
	return lang.MapAssoc(args[0], kvs), nil
}

func primDissoc(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, checkArity("dissoc", args, 1)
	}
	if err := mapArg("dissoc", args[0]); err != nil {
		return lang.Value{}, err
	}
	return lang.MapDissoc(args[0], args[1:]), nil
}

func primGet(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("get", args, 2); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type == lang.TypeNil {
		return lang.Nil, nil
	}
	if err := mapArg("get", args[0]); err != nil {
		return lang.Value{}, err
	}
	val, _ := lang.MapGet(args[0], args[1])
	return val, nil
}

func primContains(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("contains?", args, 2); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type == lang.TypeNil {
		return lang.False, nil
	}
	if err := mapArg("contains?", args[0]); err != nil {
		return lang.Value{}, err
	}
	_, ok := lang.MapGet(args[0], args[1])
	return lang.BoolValue(ok), nil
}

func primKeys(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("keys", args, 1); err != nil {
		return lang.Value{}, err
	}
	if err := mapArg("keys", args[0]); err != nil {
		return lang.Value{}, err
	}
	return lang.ListValue(lang.MapKeys(args[0])), nil
}

func primVals(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("vals", args, 1); err != nil {
		return lang.Value{}, err
	}
	if err := mapArg("vals", args[0]); err != nil {
		return lang.Value{}, err
	}
	return lang.ListValue(lang.MapVals(args[0])), nil
}
