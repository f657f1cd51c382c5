package interpreter

import (
	"fmt"
	"strings"

	"lumen/interpreter-go/pkg/runtime"
)

// BuiltinNames lists the globals every interpreter starts with.
var BuiltinNames = []string{"true", "false", "null", "print", "time"}

func (i *Interpreter) initBuiltins() error {
	constants := []struct {
		name  string
		value runtime.Value
	}{
		{"true", runtime.BoolValue{Val: true}},
		{"false", runtime.BoolValue{Val: false}},
		{"null", runtime.Null},
	}
	for _, c := range constants {
		if err := i.DeclareGlobal(c.name, c.value, true); err != nil {
			return err
		}
	}
	if err := i.RegisterNative("print", -1, i.builtinPrint); err != nil {
		return err
	}
	return i.RegisterNative("time", 0, i.builtinTime)
}

func (i *Interpreter) builtinPrint(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = runtime.FormatValue(arg)
	}
	if _, err := fmt.Fprintln(i.stdout, strings.Join(parts, " ")); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return runtime.Null, nil
}

// builtinTime reports milliseconds since the Unix epoch. A clock that steps
// backwards is clamped to the last reported value.
func (i *Interpreter) builtinTime(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	now := float64(i.clock().UnixNano()) / 1e6
	if now < i.lastTime {
		now = i.lastTime
	}
	i.lastTime = now
	return runtime.NumberValue{Val: now}, nil
}

// RegisterNative declares a host function as a constant global. An arity
// below zero accepts any number of arguments.
func (i *Interpreter) RegisterNative(name string, arity int, impl runtime.NativeFunc) error {
	if impl == nil {
		return fmt.Errorf("interpreter: native %q has no implementation", name)
	}
	fn := runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl}
	return i.DeclareGlobal(name, fn, true)
}

// DeclareGlobal binds a host value in the global environment.
func (i *Interpreter) DeclareGlobal(name string, value runtime.Value, constant bool) error {
	if value == nil {
		value = runtime.Null
	}
	_, err := i.global.Declare(name, value, constant)
	return err
}
