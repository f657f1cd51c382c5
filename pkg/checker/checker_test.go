package checker

import (
	"testing"

	"lumen/interpreter-go/pkg/parser"
	"lumen/interpreter-go/pkg/runtime"
)

func checkSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	diags, err := New().Check(program)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return diags
}

func TestCheckCleanPrograms(t *testing.T) {
	sources := []string{
		"let x = 1 x = x + 1",
		"fn add(a, b) { a + b } add(1, 2)",
		"fn first() { second() } fn second() { 1 } first()",
		"fn outer() { fn inner(v) { v } inner(1) } outer()",
		"let o = { a: 1, b: { c: 2 } } o.b.c + o[1]",
		"let f = 1 f = 2",
		"print(1, 2, 3) time()",
		"fn f(print) { print } f(1)",
		"let g = 3 fn use() { g() }",
	}
	for _, src := range sources {
		if diags := checkSource(t, src); HasErrors(diags) {
			t.Fatalf("%q: unexpected errors %+v", src, diags)
		}
	}
}

func TestCheckFindings(t *testing.T) {
	cases := []struct {
		source   string
		kind     runtime.ErrorKind
		severity DiagnosticSeverity
		message  string
		line     int
		column   int
	}{
		{"missing + 1", runtime.UnboundName, SeverityError, "Undefined variable 'missing'", 1, 1},
		{"let a = 1\nlet a = 2", runtime.DuplicateBinding, SeverityError, "'a' is already declared in this scope", 2, 1},
		{"const c = 1\nc = 2", runtime.ConstantViolation, SeverityError, "Cannot assign to constant 'c'", 2, 1},
		{"true = 1", runtime.ConstantViolation, SeverityError, "Cannot assign to constant 'true'", 1, 1},
		{"let o = {}\no.x = 1", runtime.InvalidAssignmentTarget, SeverityError, "Invalid left-hand side in assignment: MemberExpr", 2, 1},
		{"fn add(a, b) { a + b }\nadd(1)", runtime.ArityMismatch, SeverityError, "Function 'add' expects 2 arguments, got 1", 2, 1},
		{"fn add(a, b) { a + b }\nconst plus = add\nplus(1, 2, 3)", runtime.ArityMismatch, SeverityError, "Function 'add' expects 2 arguments, got 3", 3, 1},
		{"time(1)", runtime.ArityMismatch, SeverityError, "Function 'time' expects 0 arguments, got 1", 1, 1},
		{"const n = 3\nn()", runtime.NotCallable, SeverityError, "'n' is not callable (number)", 2, 1},
		{"4()", runtime.NotCallable, SeverityError, "Cannot call value of type number", 1, 1},
		{"(1 + 2).x", runtime.InvalidMemberAccess, SeverityError, "Cannot read property 'x' of number", 1, 1},
		{"{ ghost }", runtime.UnboundName, SeverityError, "Undefined variable 'ghost'", 1, 3},
		{"fn f() {\n  nope\n}", runtime.UnboundName, SeverityWarning, "Undefined variable 'nope'", 2, 3},
		{"fn f() { let a = 1 let a = 2 }", runtime.DuplicateBinding, SeverityWarning, "'a' is already declared in this scope", 1, 20},
		{"fn f() {}\nfn f() {}", runtime.DuplicateBinding, SeverityError, "'f' is already declared in this scope", 2, 1},
	}
	for _, tc := range cases {
		diags := checkSource(t, tc.source)
		if len(diags) != 1 {
			t.Fatalf("%q: expected one diagnostic, got %+v", tc.source, diags)
		}
		diag := diags[0]
		if diag.Kind != tc.kind || diag.Severity != tc.severity || diag.Message != tc.message {
			t.Fatalf("%q: got %s/%s %q", tc.source, diag.Severity, diag.Kind, diag.Message)
		}
		start := diag.Node.Span().Start
		if start.Line != tc.line || start.Column != tc.column {
			t.Fatalf("%q: location %d:%d, want %d:%d", tc.source, start.Line, start.Column, tc.line, tc.column)
		}
	}
}

func TestFunctionBodiesSeeLaterBindings(t *testing.T) {
	diags := checkSource(t, "fn show() { print(later) }\nlet later = 1\nshow()")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
}

func TestDeclareGlobal(t *testing.T) {
	program, err := parser.Parse("answer = 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := New()
	if err := c.DeclareGlobal("answer", true); err != nil {
		t.Fatalf("DeclareGlobal: %v", err)
	}
	if err := c.DeclareGlobal("print", true); err == nil {
		t.Fatalf("expected duplicate error for print")
	}
	diags, err := c.Check(program)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(diags) != 1 || diags[0].Kind != runtime.ConstantViolation {
		t.Fatalf("diagnostics = %+v", diags)
	}
}

func TestDescribeDiagnostic(t *testing.T) {
	diags := checkSource(t, "fn f() {\n  nope\n}\nghost")
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	got := []string{DescribeDiagnostic("src/main.lm", diags[0]), DescribeDiagnostic("src/main.lm", diags[1])}
	want := []string{
		"UnboundName: src/main.lm:4:1 Undefined variable 'ghost'",
		"warning: UnboundName: src/main.lm:2:3 Undefined variable 'nope'",
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("diagnostic %d = %q, want %q", idx, got[idx], want[idx])
		}
	}
	if !HasErrors(diags) || HasErrors(diags[1:]) {
		t.Fatalf("HasErrors mismatch")
	}
}

func TestCheckNilProgram(t *testing.T) {
	if _, err := New().Check(nil); err == nil {
		t.Fatalf("expected error for nil program")
	}
}
