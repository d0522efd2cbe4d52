package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergev/malgo/lang"
	"github.com/sergev/malgo/reader"
)

// HostLanguage is bound to *host-language*.
const HostLanguage = "go"

// LineReader supplies lines of interactive input. Prompt returns io.EOF
// once input is exhausted. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Host bundles the outside collaborators that builtins talk to.
type Host struct {
	Stdout io.Writer
	Input  LineReader
}

// NewEvaluator constructs an evaluator with the standard runtime installed,
// wired to the process's standard streams.
func NewEvaluator() *lang.Evaluator {
	return NewEvaluatorWithHost(&Host{
		Stdout: os.Stdout,
		Input:  NewLineReader(os.Stdin, os.Stdout),
	})
}

// NewEvaluatorWithHost constructs an evaluator whose I/O builtins use host.
func NewEvaluatorWithHost(host *Host) *lang.Evaluator {
	ev := lang.NewEvaluator()
	installPrimitives(ev, host)
	ev.Global.Set("*host-language*", lang.StringValue(HostLanguage))
	SetArgv(ev.Global, nil)
	if err := installLibrary(ev); err != nil {
		panic(fmt.Errorf("runtime bootstrap failed: %w", err))
	}
	return ev
}

// SetArgv stores the script arguments as a list of strings in *ARGV*.
func SetArgv(env *lang.Env, args []string) {
	values := make([]lang.Value, len(args))
	for i, arg := range args {
		values[i] = lang.StringValue(arg)
	}
	env.Set("*ARGV*", lang.ListValue(values))
}

func installLibrary(ev *lang.Evaluator) error {
	for _, form := range preludeForms {
		forms, err := reader.ReadString(form)
		if err != nil {
			return err
		}
		if _, err := ev.EvalAll(forms, nil); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateString reads every form in src and evaluates them in order.
func EvaluateString(ev *lang.Evaluator, src string) (lang.Value, error) {
	forms, err := reader.ReadString(src)
	if err != nil {
		if errors.Is(err, reader.ErrNoInput) {
			return lang.Nil, nil
		}
		return lang.Value{}, err
	}
	return ev.EvalAll(forms, nil)
}

// EvaluateReader consumes all source from r and evaluates it.
func EvaluateReader(ev *lang.Evaluator, r io.Reader) (lang.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return lang.Value{}, err
	}
	return EvaluateString(ev, string(data))
}

// LoadFile runs a script through load-file, so its definitions land in
// the global environment.
func LoadFile(ev *lang.Evaluator, path string) (lang.Value, error) {
	return ev.Eval(lang.List(lang.SymbolValue("load-file"), lang.StringValue(path)), nil)
}

// FormatError renders err the way the REPL reports it. Thrown values are
// printed readably.
func FormatError(err error) string {
	var thrown *lang.ThrownError
	if errors.As(err, &thrown) {
		return "Error: " + lang.Render(thrown.Value, true)
	}
	return "Error: " + err.Error()
}

type bufferedLineReader struct {
	br  *bufio.Reader
	out io.Writer
}

// NewLineReader returns a LineReader that writes prompts to out and reads
// newline-terminated lines from r.
func NewLineReader(r io.Reader, out io.Writer) LineReader {
	return &bufferedLineReader{br: bufio.NewReader(r), out: out}
}

func (lr *bufferedLineReader) Prompt(prompt string) (string, error) {
	if lr.out != nil && prompt != "" {
		fmt.Fprint(lr.out, prompt)
	}
	line, err := lr.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
