package interpreter

import (
	"context"
	"fmt"
	"io"
	"time"

	"fortio.org/log"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/parser"
	"lumen/interpreter-go/pkg/runtime"
)

type runtimeCallFrame struct {
	node *ast.CallExpr
}

// Interpreter evaluates Lumen programs against one global environment. It is
// not safe for concurrent use.
type Interpreter struct {
	global *runtime.Environment

	stdout         io.Writer
	clock          func() time.Time
	lastTime       float64
	strictOperands bool

	maxCallDepth int
	maxEvalDepth int
	callDepth    int
	evalDepth    int
	callStack    []runtimeCallFrame

	ctx         context.Context
	nodeOrigins map[ast.Node]string
}

// New returns an interpreter whose global environment holds the builtins and
// any natives supplied through options.
func New(opts ...Option) (*Interpreter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	i := &Interpreter{
		global:         runtime.NewEnvironment(nil),
		stdout:         cfg.stdout,
		clock:          cfg.clock,
		strictOperands: cfg.strictOperands,
		maxCallDepth:   cfg.maxCallDepth,
		maxEvalDepth:   cfg.maxEvalDepth,
		callStack:      make([]runtimeCallFrame, 0),
		nodeOrigins:    make(map[ast.Node]string),
	}
	if err := i.initBuiltins(); err != nil {
		return nil, err
	}
	for _, native := range cfg.natives {
		if err := i.RegisterNative(native.Name, native.Arity, native.Impl); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// SetNodeOrigins merges source paths used when rendering diagnostics.
func (i *Interpreter) SetNodeOrigins(origins map[ast.Node]string) {
	for node, path := range origins {
		i.nodeOrigins[node] = path
	}
}

// EvaluateProgram runs a program in the global environment and returns the
// value of its last statement.
func (i *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	return i.EvaluateContext(context.Background(), program)
}

// EvaluateContext is EvaluateProgram with cancellation: ctx is checked before
// every node is evaluated.
func (i *Interpreter) EvaluateContext(ctx context.Context, program *ast.Program) (runtime.Value, error) {
	if program == nil {
		return runtime.Null, nil
	}
	prev := i.ctx
	i.ctx = ctx
	defer func() { i.ctx = prev }()
	i.callStack = i.callStack[:0]
	i.callDepth = 0
	i.evalDepth = 0
	return i.Evaluate(program, i.global)
}

// EvaluateSource parses source, recording name as the origin of its nodes,
// and evaluates it in the global environment. Lexer and parser errors are
// returned unchanged.
func (i *Interpreter) EvaluateSource(ctx context.Context, name, source string) (runtime.Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	ast.AnnotateOrigins(program, name, i.nodeOrigins)
	return i.EvaluateContext(ctx, program)
}

// Evaluate dispatches on the node type. It is the single entry point every
// nested evaluation goes through.
func (i *Interpreter) Evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if node == nil {
		return runtime.Null, nil
	}
	if i.ctx != nil {
		if err := i.ctx.Err(); err != nil {
			return nil, i.attachRuntimeContext(&runtime.Error{
				Kind:    runtime.Cancelled,
				Message: fmt.Sprintf("Evaluation cancelled: %v", err),
				Cause:   err,
			}, node)
		}
	}
	i.evalDepth++
	defer func() { i.evalDepth-- }()
	if i.evalDepth > i.maxEvalDepth {
		return nil, i.attachRuntimeContext(runtime.NewError(runtime.StackOverflow, "",
			"Maximum evaluation depth of %d exceeded", i.maxEvalDepth), node)
	}
	if log.LogVerbose() {
		log.LogVf("eval %s %s", node.NodeType(), node.Span())
	}

	var (
		val runtime.Value
		err error
	)
	switch n := node.(type) {
	case *ast.Program:
		val, err = i.evaluateProgram(n, env)
	case *ast.VarDeclaration:
		val, err = i.evaluateVarDeclaration(n, env)
	case *ast.FunctionDeclaration:
		val, err = i.evaluateFunctionDeclaration(n, env)
	case ast.Expression:
		val, err = i.evaluateExpression(n, env)
	default:
		err = fmt.Errorf("interpreter: unsupported node %s", node.NodeType())
	}
	if err != nil {
		return nil, i.attachRuntimeContext(err, node)
	}
	return val, nil
}

func (i *Interpreter) pushCallFrame(node *ast.CallExpr) {
	i.callStack = append(i.callStack, runtimeCallFrame{node: node})
}

func (i *Interpreter) popCallFrame() {
	if len(i.callStack) > 0 {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}
}

func (i *Interpreter) snapshotCallStack() []runtimeCallFrame {
	if len(i.callStack) == 0 {
		return nil
	}
	out := make([]runtimeCallFrame, len(i.callStack))
	copy(out, i.callStack)
	return out
}
