package interpreter

import (
	"fortio.org/log"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

// Arguments are evaluated left to right before the callee.
func (i *Interpreter) evaluateCallExpr(call *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.Evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	callee, err := i.Evaluate(call.Caller, env)
	if err != nil {
		return nil, err
	}

	i.pushCallFrame(call)
	defer i.popCallFrame()
	return i.callFunction(callee, args, env, calleeName(call.Caller))
}

func calleeName(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Symbol
	case *ast.MemberExpr:
		if id, ok := n.Property.(*ast.Identifier); ok && !n.Computed {
			return id.Symbol
		}
	}
	return ""
}

// CallFunction invokes a callable value from host code, using the global
// environment as the calling scope for natives.
func (i *Interpreter) CallFunction(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callFunction(fn, args, i.global, "")
}

func (i *Interpreter) callFunction(callee runtime.Value, args []runtime.Value, env *runtime.Environment, name string) (runtime.Value, error) {
	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		return i.invokeNative(fn, args, env)
	case *runtime.NativeFunctionValue:
		if fn != nil {
			return i.invokeNative(*fn, args, env)
		}
	case *runtime.FunctionValue:
		if fn != nil {
			return i.invokeFunction(fn, args)
		}
	}
	kind := "null"
	if callee != nil {
		kind = callee.Kind().String()
	}
	if name != "" {
		return nil, runtime.NewError(runtime.NotCallable, name, "'%s' is not callable (%s)", name, kind)
	}
	return nil, runtime.NewError(runtime.NotCallable, "", "Cannot call value of type %s", kind)
}

func (i *Interpreter) invokeNative(fn runtime.NativeFunctionValue, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, arityMismatch(fn.Name, fn.Arity, len(args))
	}
	if fn.Impl == nil {
		return nil, runtime.NewError(runtime.NotCallable, fn.Name, "Native function '%s' has no implementation", fn.Name)
	}
	if log.LogVerbose() {
		log.LogVf("call native %s with %d args", fn.Name, len(args))
	}
	result, err := fn.Impl(&runtime.NativeCallContext{Env: env}, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return runtime.Null, nil
	}
	return result, nil
}

// invokeFunction binds arguments in a fresh scope whose parent is the
// function's captured environment, not the caller's.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, arityMismatch(fn.Name, len(fn.Params), len(args))
	}
	i.callDepth++
	defer func() { i.callDepth-- }()
	if i.callDepth > i.maxCallDepth {
		return nil, runtime.NewError(runtime.StackOverflow, fn.Name,
			"Maximum call depth of %d exceeded calling '%s'", i.maxCallDepth, fn.Name)
	}
	if log.LogVerbose() {
		log.LogVf("call %s depth=%d", fn.Name, i.callDepth)
	}

	scope := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		if _, err := scope.Declare(param, args[idx], false); err != nil {
			return nil, err
		}
	}
	return i.evaluateBody(fn.Body, scope)
}

func arityMismatch(name string, want, got int) error {
	return runtime.NewError(runtime.ArityMismatch, name, "Function '%s' expects %d arguments, got %d", name, want, got)
}
