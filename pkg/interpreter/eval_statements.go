package interpreter

import (
	"fortio.org/log"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateProgram(program *ast.Program, env *runtime.Environment) (runtime.Value, error) {
	return i.evaluateBody(program.Body, env)
}

// evaluateBody runs statements in order and yields the last value, or null
// for an empty body.
func (i *Interpreter) evaluateBody(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var last runtime.Value = runtime.Null
	for _, stmt := range body {
		val, err := i.Evaluate(stmt, env)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func (i *Interpreter) evaluateVarDeclaration(decl *ast.VarDeclaration, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.Null
	if decl.Value != nil {
		val, err := i.Evaluate(decl.Value, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	if log.LogVerbose() {
		log.LogVf("eval declare %s (constant=%t) to %s", decl.Identifier, decl.Constant, runtime.FormatValue(value))
	}
	return env.Declare(decl.Identifier, value, decl.Constant)
}

// Function declarations capture env by reference, so later bindings in the
// same scope are visible to the body (mutual recursion works).
func (i *Interpreter) evaluateFunctionDeclaration(decl *ast.FunctionDeclaration, env *runtime.Environment) (runtime.Value, error) {
	fn := &runtime.FunctionValue{
		Name:    decl.Name,
		Params:  decl.Parameters,
		Body:    decl.Body,
		Closure: env,
	}
	return env.Declare(decl.Name, fn, true)
}
