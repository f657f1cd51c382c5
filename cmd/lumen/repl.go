package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"lumen/interpreter-go/pkg/interpreter"
	"lumen/interpreter-go/pkg/parser"
	"lumen/interpreter-go/pkg/runtime"
)

const (
	historyFile = ".lumen_history"
	promptMain  = "lumen> "
	promptCont  = "  ...> "
)

// lineReader is the part of liner.State the REPL loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type replSession struct {
	cli    *cli
	interp *interpreter.Interpreter
	chunks int
}

func (c *cli) runRepl() int {
	manifest, err := c.loadManifestFrom(".", false)
	if err != nil {
		return 1
	}
	interp, err := c.newInterpreter(manifest)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to initialize interpreter: %v\n", err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(c.stdout, "%s (type :quit to exit)\n", cliToolVersion)
	session := &replSession{cli: c, interp: interp}
	return session.loop(ln, ln.AppendHistory)
}

// loop reads chunks until EOF or :quit. Every successfully read chunk is
// passed to remember.
func (r *replSession) loop(in lineReader, remember func(string)) int {
	for {
		code, ok := r.readChunk(in)
		if !ok {
			fmt.Fprintln(r.cli.stdout)
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if remember != nil {
			remember(strings.ReplaceAll(code, "\n", " "))
		}
		if strings.HasPrefix(trimmed, ":") {
			if r.command(trimmed) {
				return 0
			}
			continue
		}
		r.eval(code)
	}
}

// readChunk keeps prompting while the parser reports the input as
// incomplete. It returns false at end of input.
func (r *replSession) readChunk(in lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			fmt.Fprintf(r.cli.stderr, "read error: %v\n", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(b.String()), ":") {
			return b.String(), true
		}
		if _, perr := parser.Parse(b.String()); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return b.String(), true
	}
}

func (r *replSession) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":env":
		r.printEnv()
	case ":help":
		fmt.Fprintln(r.cli.stdout, ":env   list global bindings")
		fmt.Fprintln(r.cli.stdout, ":quit  leave the REPL")
	default:
		fmt.Fprintf(r.cli.stdout, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

func (r *replSession) printEnv() {
	builtin := make(map[string]struct{}, len(interpreter.BuiltinNames))
	for _, name := range interpreter.BuiltinNames {
		builtin[name] = struct{}{}
	}
	global := r.interp.GlobalEnvironment()
	snapshot := global.Snapshot()
	for _, name := range global.Keys() {
		if _, ok := builtin[name]; ok {
			continue
		}
		label := "let"
		if global.IsConstant(name) {
			label = "const"
		}
		fmt.Fprintf(r.cli.stdout, "%s %s = %s\n", label, name, runtime.FormatValue(snapshot[name]))
	}
}

func (r *replSession) eval(code string) {
	r.chunks++
	name := fmt.Sprintf("<repl:%d>", r.chunks)
	val, err := r.interp.EvaluateSource(context.Background(), name, code)
	if err != nil {
		r.cli.reportError(r.interp, name, err)
		return
	}
	if val != nil && val.Kind() != runtime.KindNull {
		fmt.Fprintln(r.cli.stdout, runtime.FormatValue(val))
	}
}
