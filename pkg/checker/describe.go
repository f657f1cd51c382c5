package checker

import (
	"fmt"
	"path/filepath"

	"lumen/interpreter-go/pkg/driver"
)

// Location maps a diagnostic onto the driver's location type.
func Location(path string, diag Diagnostic) driver.DiagnosticLocation {
	loc := driver.DiagnosticLocation{Path: filepath.ToSlash(path)}
	if diag.Node == nil {
		return loc
	}
	span := diag.Node.Span()
	loc.Line = span.Start.Line
	loc.Column = span.Start.Column
	loc.EndLine = span.End.Line
	loc.EndColumn = span.End.Column
	return loc
}

// DescribeDiagnostic renders "[warning: ]<kind>: <location> <message>".
func DescribeDiagnostic(path string, diag Diagnostic) string {
	prefix := diag.Kind.String() + ": "
	if diag.Severity == SeverityWarning {
		prefix = "warning: " + prefix
	}
	if location := driver.FormatDiagnosticLocation(Location(path, diag)); location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, diag.Message)
	}
	return prefix + diag.Message
}
