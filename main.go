package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sergev/malgo/lang"
	"github.com/sergev/malgo/reader"
	"github.com/sergev/malgo/runtime"
)

const (
	prompt         = "user> "
	continuePrompt = ".... "
	banner         = `(println (str "Mal [" *host-language* "]"))`
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		ev := runtime.NewEvaluator()
		runtime.SetArgv(ev.Global, args[1:])
		script := args[0]
		var err error
		if script == "-" {
			_, err = runtime.EvaluateReader(ev, os.Stdin)
		} else {
			_, err = runtime.LoadFile(ev, script)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "malgo: %s\n", runtime.FormatError(err))
			os.Exit(1)
		}
		return
	}

	if !isInteractive() {
		in := bufio.NewReader(os.Stdin)
		ev := runtime.NewEvaluatorWithHost(&runtime.Host{
			Stdout: os.Stdout,
			Input:  runtime.NewLineReader(in, nil),
		})
		runBufferedREPL(ev, in, os.Stdout, os.Stderr)
		return
	}
	runInteractiveREPL()
}

// evalSource parses src and evaluates each form, printing results to out
// and errors to errOut. When src ends inside an unfinished form nothing is
// evaluated and the incomplete-input error is returned.
func evalSource(ev *lang.Evaluator, src string, out, errOut io.Writer) error {
	forms, err := reader.ReadString(src)
	if err != nil {
		switch {
		case errors.Is(err, reader.ErrNoInput):
			return nil
		case reader.IsIncomplete(err):
			return err
		}
		fmt.Fprintln(errOut, runtime.FormatError(err))
		return nil
	}
	for _, expr := range forms {
		val, evalErr := ev.Eval(expr, nil)
		if evalErr != nil {
			fmt.Fprintln(errOut, runtime.FormatError(evalErr))
			break
		}
		fmt.Fprintln(out, lang.Render(val, true))
	}
	return nil
}

func runBufferedREPL(ev *lang.Evaluator, in *bufio.Reader, out, errOut io.Writer) {
	var buffer strings.Builder

	for {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(errOut, "read error: %v\n", err)
			return
		}
		eof := errors.Is(err, io.EOF)
		if eof && line == "" && buffer.Len() == 0 {
			return
		}
		buffer.WriteString(line)
		if incomplete := evalSource(ev, buffer.String(), out, errOut); incomplete != nil {
			if !eof {
				continue
			}
			fmt.Fprintln(errOut, runtime.FormatError(incomplete))
		}
		buffer.Reset()
		if eof {
			return
		}
	}
}

func runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	ev := runtime.NewEvaluatorWithHost(&runtime.Host{Stdout: os.Stdout, Input: state})
	state.SetTabCompletionStyle(liner.TabPrints)
	state.SetWordCompleter(completeSymbol(ev.Global))

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	if _, err := runtime.EvaluateString(ev, banner); err != nil {
		fmt.Fprintln(os.Stderr, runtime.FormatError(err))
	}

	var buffer strings.Builder

	for {
		p := prompt
		if buffer.Len() > 0 {
			p = continuePrompt
		}
		input, err := state.Prompt(p)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if evalSource(ev, src, os.Stdout, os.Stderr) != nil {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
	}
}

// completeSymbol completes the word under the cursor against every name
// bound in env.
func completeSymbol(env *lang.Env) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		rs := []rune(line)
		if pos > len(rs) {
			pos = len(rs)
		}
		start := pos
		for start > 0 && !strings.ContainsRune(" \t\n()[]{}'`~@^\",;", rs[start-1]) {
			start--
		}
		word := string(rs[start:pos])
		var matches []string
		if word != "" {
			for _, name := range env.Names() {
				if strings.HasPrefix(name, word) {
					matches = append(matches, name)
				}
			}
		}
		return string(rs[:start]), matches, string(rs[pos:])
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".malgo_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
