// Package checker reports binding and call mistakes in a Lumen program
// without running it.
//
// Top-level statements always run in order, so problems found there are
// errors. Function bodies only run when called and are checked against the
// final state of their enclosing scopes, so problems found there are
// warnings.
package checker

import (
	"fmt"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

// DiagnosticSeverity conveys the diagnostic level.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Diagnostic is one finding. Kind is the runtime error the code would raise.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Kind     runtime.ErrorKind
	Message  string
	Node     ast.Node
}

// Checker walks a program with a static model of its scopes.
type Checker struct {
	global        *scope
	functionDepth int
	pending       []pendingBody
	diagnostics   []Diagnostic
}

type pendingBody struct {
	decl  *ast.FunctionDeclaration
	outer *scope
	depth int
}

// New returns a checker whose global scope holds the interpreter builtins.
func New() *Checker {
	c := &Checker{global: newScope(nil)}
	c.global.declare("true", &binding{constant: true, kind: kindBool})
	c.global.declare("false", &binding{constant: true, kind: kindBool})
	c.global.declare("null", &binding{constant: true, kind: kindNull})
	c.global.declare("print", &binding{constant: true, kind: kindFunction, arity: -1, name: "print"})
	c.global.declare("time", &binding{constant: true, kind: kindFunction, arity: 0, name: "time"})
	return c
}

// DeclareGlobal makes a host-provided binding visible to checked programs.
func (c *Checker) DeclareGlobal(name string, constant bool) error {
	if c.global.has(name) {
		return runtime.NewError(runtime.DuplicateBinding, name, "'%s' is already declared in this scope", name)
	}
	c.global.declare(name, &binding{constant: constant})
	return nil
}

// Check analyses program and returns its diagnostics in source order of
// discovery: top-level statements first, then function bodies.
func (c *Checker) Check(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("checker: program is nil")
	}
	c.diagnostics = nil
	c.pending = nil
	c.functionDepth = 0

	c.checkBody(c.global, program.Body)
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.checkFunctionBody(next)
	}
	return c.diagnostics, nil
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, diag := range diags {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (c *Checker) report(kind runtime.ErrorKind, node ast.Node, format string, args ...any) {
	severity := SeverityError
	if c.functionDepth > 0 {
		severity = SeverityWarning
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: severity,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Node:     node,
	})
}

func (c *Checker) checkFunctionBody(body pendingBody) {
	prev := c.functionDepth
	c.functionDepth = body.depth
	defer func() { c.functionDepth = prev }()

	local := newScope(body.outer)
	for _, param := range body.decl.Parameters {
		local.declare(param, &binding{})
	}
	c.checkBody(local, body.decl.Body)
}
