package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"

	"lumen/interpreter-go/pkg/checker"
	"lumen/interpreter-go/pkg/driver"
	"lumen/interpreter-go/pkg/interpreter"
	"lumen/interpreter-go/pkg/lexer"
	"lumen/interpreter-go/pkg/parser"
	"lumen/interpreter-go/pkg/runtime"
)

const cliToolVersion = "lumen 0.1.0-dev"

// cliFlags are the options accepted anywhere on the command line.
type cliFlags struct {
	trace          bool
	strictOperands bool
	maxCallDepth   int
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
	flags  cliFlags
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, rest, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
		return 1
	}
	c := &cli{stdout: stdout, stderr: stderr, flags: flags}
	if flags.trace {
		log.SetLogLevel(log.Verbose)
	}

	if len(rest) == 0 {
		printUsage(stderr)
		return 1
	}

	switch rest[0] {
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	case "version", "--version", "-V":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return c.runEntry(rest[1:])
	case "check":
		return c.runCheck(rest[1:])
	case "tokens":
		return c.runTokens(rest[1:])
	case "repl":
		if len(rest) > 1 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
			return 1
		}
		return c.runRepl()
	default:
		return c.runEntry(rest)
	}
}

// parseFlags strips --trace, --strict-operands and --max-call-depth[=N] from
// args. Everything after a bare "--" is left untouched.
func parseFlags(args []string) (cliFlags, []string, error) {
	var flags cliFlags
	rest := make([]string, 0, len(args))
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if arg == "--" {
			rest = append(rest, args[idx+1:]...)
			break
		}
		switch {
		case arg == "--trace":
			flags.trace = true
		case arg == "--strict-operands":
			flags.strictOperands = true
		case arg == "--max-call-depth" || strings.HasPrefix(arg, "--max-call-depth="):
			value, ok := strings.CutPrefix(arg, "--max-call-depth=")
			if !ok {
				if idx+1 >= len(args) {
					return flags, nil, errors.New("--max-call-depth requires a value")
				}
				idx++
				value = args[idx]
			}
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n <= 0 {
				return flags, nil, fmt.Errorf("--max-call-depth expects a positive integer, got %q", value)
			}
			flags.maxCallDepth = n
		case strings.HasPrefix(arg, "--") && arg != "--help" && arg != "--version":
			return flags, nil, fmt.Errorf("unknown flag %s", arg)
		default:
			rest = append(rest, arg)
		}
	}
	return flags, rest, nil
}

func (c *cli) runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		source   *driver.Source
		manifest *driver.Manifest
		err      error
	)
	if len(args) == 0 {
		manifest, err = c.loadManifestFrom(".", true)
		if err != nil {
			return 1
		}
		source, err = manifest.LoadEntry(ctx)
		if err != nil {
			fmt.Fprintf(c.stderr, "failed to load entry for %s: %v\n", manifest.Name, err)
			return 1
		}
	} else {
		target := strings.TrimSpace(args[0])
		if !driver.IsGitLocator(target) {
			manifest, err = c.loadManifestFrom(target, false)
			if err != nil {
				return 1
			}
		}
		source, err = driver.LoadSource(ctx, target)
		if err != nil {
			fmt.Fprintf(c.stderr, "failed to load %s: %v\n", target, err)
			return 1
		}
	}

	interp, err := c.newInterpreter(manifest)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to initialize interpreter: %v\n", err)
		return 1
	}
	if _, err := interp.EvaluateSource(ctx, source.Name, source.Text); err != nil {
		c.reportError(interp, source.Name, err)
		return 1
	}
	return 0
}

func (c *cli) runCheck(args []string) int {
	source, code := c.loadSingleFile("check", args)
	if source == nil {
		return code
	}
	program, err := parser.Parse(source.Text)
	if err != nil {
		c.reportError(nil, source.Name, err)
		return 1
	}
	var manifest *driver.Manifest
	if !driver.IsGitLocator(args[0]) {
		if manifest, err = c.loadManifestFrom(args[0], false); err != nil {
			return 1
		}
	}
	chk := checker.New()
	if manifest != nil {
		for _, name := range manifest.GlobalNames() {
			if err := chk.DeclareGlobal(name, true); err != nil {
				fmt.Fprintf(c.stderr, "manifest global %s: %v\n", name, err)
				return 1
			}
		}
	}
	diags, err := chk.Check(program)
	if err != nil {
		fmt.Fprintf(c.stderr, "check failed: %v\n", err)
		return 1
	}
	for _, diag := range diags {
		fmt.Fprintln(c.stderr, checker.DescribeDiagnostic(source.Name, diag))
	}
	if checker.HasErrors(diags) {
		return 1
	}
	fmt.Fprintln(c.stdout, "check: ok")
	return 0
}

func (c *cli) runTokens(args []string) int {
	source, code := c.loadSingleFile("tokens", args)
	if source == nil {
		return code
	}
	tokens, err := lexer.Tokenize(source.Text)
	if err != nil {
		c.reportError(nil, source.Name, err)
		return 1
	}
	for _, tok := range tokens {
		fmt.Fprintf(c.stdout, "%s %s %q\n", tok.Pos, tok.Kind, tok.Value)
	}
	return 0
}

func (c *cli) loadSingleFile(command string, args []string) (*driver.Source, int) {
	if len(args) != 1 {
		fmt.Fprintf(c.stderr, "lumen %s requires exactly one source file\n", command)
		return nil, 1
	}
	source, err := driver.LoadSource(context.Background(), args[0])
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load %s: %v\n", args[0], err)
		return nil, 1
	}
	return source, 0
}

// loadManifestFrom finds the manifest governing start. A missing manifest
// is only an error when required is set; problems are reported to stderr.
func (c *cli) loadManifestFrom(start string, required bool) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) && !required {
			return nil, nil
		}
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(c.stderr, "lumen run requires a source file or a %s (%v)\n", driver.ManifestFileName, err)
		} else {
			fmt.Fprintf(c.stderr, "failed to locate manifest: %v\n", err)
		}
		return nil, err
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load manifest: %v\n", err)
		return nil, err
	}
	log.LogVf("using manifest %s", filepath.ToSlash(manifest.Path))
	return manifest, nil
}

// newInterpreter layers manifest settings under the command-line flags.
func (c *cli) newInterpreter(manifest *driver.Manifest) (*interpreter.Interpreter, error) {
	opts := []interpreter.Option{interpreter.WithStdout(c.stdout)}
	if manifest != nil {
		opts = append(opts, interpreter.WithConfig(manifest.Interpreter))
		if manifest.Interpreter.Trace {
			log.SetLogLevel(log.Verbose)
		}
	}
	if c.flags.maxCallDepth > 0 {
		opts = append(opts, interpreter.WithMaxCallDepth(c.flags.maxCallDepth))
	}
	if c.flags.strictOperands {
		opts = append(opts, interpreter.WithStrictOperands(true))
	}
	interp, err := interpreter.New(opts...)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		for _, name := range manifest.GlobalNames() {
			value := runtime.NumberValue{Val: manifest.Globals[name]}
			if err := interp.DeclareGlobal(name, value, true); err != nil {
				return nil, fmt.Errorf("manifest global %s: %w", name, err)
			}
		}
	}
	return interp, nil
}

func (c *cli) reportError(interp *interpreter.Interpreter, name string, err error) {
	if diag, ok := driver.ParserDiagnosticFromError(name, err); ok {
		fmt.Fprintln(c.stderr, driver.DescribeParserDiagnostic(diag))
		return
	}
	if interp == nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return
	}
	fmt.Fprintln(c.stderr, interpreter.DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err)))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lumen [flags] run [file | git+<repo>#<rev>:<path>]")
	fmt.Fprintln(w, "  lumen [flags] <file.lm>")
	fmt.Fprintln(w, "  lumen check <file.lm>")
	fmt.Fprintln(w, "  lumen tokens <file.lm>")
	fmt.Fprintln(w, "  lumen [flags] repl")
	fmt.Fprintln(w, "  lumen version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --trace               log every evaluation step")
	fmt.Fprintln(w, "  --strict-operands     fail on arithmetic with non-numbers")
	fmt.Fprintln(w, "  --max-call-depth=N    bound nested function calls")
}
