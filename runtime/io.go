package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergev/malgo/lang"
	"github.com/sergev/malgo/reader"
)

func (h *Host) install(define func(string, lang.Primitive)) {
	define("pr-str", primPrStr)
	define("str", primStr)
	define("prn", h.primPrn)
	define("println", h.primPrintln)
	define("read-string", primReadString)
	define("slurp", primSlurp)
	define("readline", h.primReadline)
	define("func-ast", h.primFuncAst)
}

func renderJoined(args []lang.Value, readably bool, sep string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = lang.Render(arg, readably)
	}
	return strings.Join(parts, sep)
}

func primPrStr(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.StringValue(renderJoined(args, true, " ")), nil
}

func primStr(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.StringValue(renderJoined(args, false, "")), nil
}

func (h *Host) primPrn(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	fmt.Fprintln(h.Stdout, renderJoined(args, true, " "))
	return lang.Nil, nil
}

func (h *Host) primPrintln(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	fmt.Fprintln(h.Stdout, renderJoined(args, false, " "))
	return lang.Nil, nil
}

func primReadString(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("read-string", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("read-string", "string", args[0])
	}
	val, err := reader.Read(args[0].Str())
	if errors.Is(err, reader.ErrNoInput) {
		return lang.Nil, nil
	}
	return val, err
}

func primSlurp(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("slurp", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("slurp", "string", args[0])
	}
	data, err := os.ReadFile(args[0].Str())
	if err != nil {
		return lang.Value{}, fmt.Errorf("slurp: %w", err)
	}
	return lang.StringValue(string(data)), nil
}

func (h *Host) primReadline(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("readline", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("readline", "string", args[0])
	}
	if h.Input == nil {
		return lang.Nil, nil
	}
	line, err := h.Input.Prompt(args[0].Str())
	if err != nil {
		if errors.Is(err, io.EOF) {
			return lang.Nil, nil
		}
		return lang.Value{}, fmt.Errorf("readline: %w", err)
	}
	return lang.StringValue(line), nil
}

func (h *Host) primFuncAst(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := checkArity("func-ast", args, 1); err != nil {
		return lang.Value{}, err
	}
	c := args[0].Closure()
	if args[0].Type != lang.TypeClosure || c == nil {
		return lang.Value{}, typeError("func-ast", "closure", args[0])
	}
	fmt.Fprintln(h.Stdout, lang.Render(c.Body, true))
	return lang.Nil, nil
}
