package interpreter

import (
	"io"
	"os"
	"time"

	"lumen/interpreter-go/pkg/driver"
	"lumen/interpreter-go/pkg/runtime"
)

const (
	DefaultMaxCallDepth = 1024
	DefaultMaxEvalDepth = 100000
)

type config struct {
	stdout         io.Writer
	clock          func() time.Time
	maxCallDepth   int
	maxEvalDepth   int
	strictOperands bool
	natives        []runtime.NativeFunctionValue
}

func defaultConfig() config {
	return config{
		stdout:       os.Stdout,
		clock:        time.Now,
		maxCallDepth: DefaultMaxCallDepth,
		maxEvalDepth: DefaultMaxEvalDepth,
	}
}

// Option configures an Interpreter.
type Option func(*config)

// WithStdout redirects the print builtin.
func WithStdout(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.stdout = w
		}
	}
}

// WithClock replaces the clock read by the time builtin.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMaxCallDepth bounds nested function calls. Values below one keep the default.
func WithMaxCallDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxCallDepth = n
		}
	}
}

// WithMaxEvalDepth bounds nested node evaluation. Values below one keep the default.
func WithMaxEvalDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEvalDepth = n
		}
	}
}

// WithStrictOperands makes arithmetic on non-numbers fail instead of
// producing null.
func WithStrictOperands(strict bool) Option {
	return func(c *config) {
		c.strictOperands = strict
	}
}

// WithNative registers a host function as a constant global.
func WithNative(name string, arity int, impl runtime.NativeFunc) Option {
	return func(c *config) {
		c.natives = append(c.natives, runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl})
	}
}

// WithConfig applies the interpreter section of a project manifest.
func WithConfig(cfg driver.InterpreterConfig) Option {
	return func(c *config) {
		WithMaxCallDepth(cfg.MaxCallDepth)(c)
		WithMaxEvalDepth(cfg.MaxEvalDepth)(c)
		if cfg.StrictOperands {
			c.strictOperands = true
		}
	}
}
