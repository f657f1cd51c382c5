package interpreter

import (
	"context"
	"testing"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

func TestRuntimeDiagnosticsFormatting(t *testing.T) {
	interp, _ := newTestInterpreter(t)

	errorNode := ast.ID("boom")
	callNode := ast.Call(ast.ID("explode"))
	ast.SetSpan(errorNode, ast.Span{
		Start: ast.Position{Line: 6, Column: 3},
		End:   ast.Position{Line: 6, Column: 7},
	})
	ast.SetSpan(callNode, ast.Span{
		Start: ast.Position{Line: 10, Column: 5},
		End:   ast.Position{Line: 10, Column: 14},
	})
	interp.SetNodeOrigins(map[ast.Node]string{
		errorNode: "scripts/main.lm",
		callNode:  "scripts/main.lm",
	})
	interp.pushCallFrame(callNode)

	var err error = runtime.NewError(runtime.UnboundName, "boom", "Undefined variable '%s'", "boom")
	err = interp.attachRuntimeContext(err, errorNode)
	interp.popCallFrame()

	got := DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err))
	want := "UnboundName: scripts/main.lm:6:3 Undefined variable 'boom'\nnote: scripts/main.lm:10:5 called from here"
	if got != want {
		t.Fatalf("unexpected diagnostic output:\nexpected: %s\ngot: %s", want, got)
	}
}

func TestRuntimeDiagnosticFromEvaluation(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	source := "fn inner() {\n  missing\n}\nfn outer() { inner() }\nouter()"
	_, err := interp.EvaluateSource(context.Background(), "app.lm", source)
	if err == nil {
		t.Fatalf("expected failure")
	}
	got := DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err))
	want := "UnboundName: app.lm:2:3 Undefined variable 'missing'\n" +
		"note: app.lm:4:14 called from here\n" +
		"note: app.lm:5:1 called from here"
	if got != want {
		t.Fatalf("unexpected diagnostic output:\nexpected: %s\ngot: %s", want, got)
	}
}

func TestRuntimeDiagnosticWithoutLocation(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	diag := interp.BuildRuntimeDiagnostic(runtime.NewError(runtime.NotCallable, "", "Cannot call value of type number"))
	if got := DescribeRuntimeDiagnostic(diag); got != "NotCallable: Cannot call value of type number" {
		t.Fatalf("unexpected output %q", got)
	}
}
