package driver

import (
	"errors"
	"fmt"
	"strings"

	"lumen/interpreter-go/pkg/lexer"
	"lumen/interpreter-go/pkg/parser"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParserDiagnostic represents a structured lexer or parser diagnostic.
type ParserDiagnostic struct {
	Severity DiagnosticSeverity
	// Kind is "LexError" or "ParseError".
	Kind     string
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticFromError converts a lexer or parser failure for the named
// source into a diagnostic. It reports false for any other error.
func ParserDiagnosticFromError(path string, err error) (ParserDiagnostic, bool) {
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return ParserDiagnostic{
			Severity: SeverityError,
			Kind:     "LexError",
			Message:  fmt.Sprintf("unrecognized character %q", lexErr.Char),
			Location: DiagnosticLocation{
				Path:      path,
				Line:      lexErr.Pos.Line,
				Column:    lexErr.Pos.Column,
				EndLine:   lexErr.Pos.Line,
				EndColumn: lexErr.Pos.Column + 1,
			},
		}, true
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return ParserDiagnostic{
			Severity: SeverityError,
			Kind:     "ParseError",
			Message:  parseErr.Message,
			Location: DiagnosticLocation{
				Path:      path,
				Line:      parseErr.Location.Line,
				Column:    parseErr.Location.Column,
				EndLine:   parseErr.Location.EndLine,
				EndColumn: parseErr.Location.EndColumn,
			},
		}, true
	}
	return ParserDiagnostic{}, false
}

// DescribeParserDiagnostic formats a parser diagnostic for CLI output.
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	kind := diag.Kind
	if kind == "" {
		kind = "ParseError"
	}
	prefix := kind + ": "
	if diag.Severity == SeverityWarning {
		prefix = "warning: " + prefix
	}
	location := FormatDiagnosticLocation(diag.Location)
	if location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, message)
	}
	return fmt.Sprintf("%s%s", prefix, message)
}

// FormatDiagnosticLocation renders path:line:column, degrading gracefully
// when parts are missing.
func FormatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
