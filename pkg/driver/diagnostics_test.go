package driver

import (
	"errors"
	"testing"

	"lumen/interpreter-go/pkg/parser"
)

func TestParserDiagnosticFromParseError(t *testing.T) {
	_, err := parser.Parse("let = 1")
	diag, ok := ParserDiagnosticFromError("src/main.lm", err)
	if !ok {
		t.Fatalf("expected parser diagnostic for %v", err)
	}
	got := DescribeParserDiagnostic(diag)
	want := `ParseError: src/main.lm:1:5 Expected identifier name following let | const keywords, found Equals "="`
	if got != want {
		t.Fatalf("diagnostic = %q, want %q", got, want)
	}
}

func TestParserDiagnosticFromLexError(t *testing.T) {
	_, err := parser.Parse("let a = 1\n  @")
	diag, ok := ParserDiagnosticFromError("main.lm", err)
	if !ok {
		t.Fatalf("expected lexer diagnostic for %v", err)
	}
	if got, want := DescribeParserDiagnostic(diag), `LexError: main.lm:2:3 unrecognized character '@'`; got != want {
		t.Fatalf("diagnostic = %q, want %q", got, want)
	}
}

func TestParserDiagnosticIgnoresOtherErrors(t *testing.T) {
	if _, ok := ParserDiagnosticFromError("x", errors.New("boom")); ok {
		t.Fatalf("unexpected diagnostic for plain error")
	}
}

func TestFormatDiagnosticLocation(t *testing.T) {
	cases := []struct {
		loc  DiagnosticLocation
		want string
	}{
		{DiagnosticLocation{Path: "a.lm", Line: 2, Column: 4}, "a.lm:2:4"},
		{DiagnosticLocation{Path: "a.lm", Line: 2}, "a.lm:2"},
		{DiagnosticLocation{Path: "a.lm"}, "a.lm"},
		{DiagnosticLocation{Line: 3, Column: 1}, "line 3, column 1"},
		{DiagnosticLocation{Line: 3}, "line 3"},
		{DiagnosticLocation{}, ""},
	}
	for _, tc := range cases {
		if got := FormatDiagnosticLocation(tc.loc); got != tc.want {
			t.Fatalf("FormatDiagnosticLocation(%+v) = %q, want %q", tc.loc, got, tc.want)
		}
	}
}
