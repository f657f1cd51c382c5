package interpreter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/driver"
)

const maxDiagnosticNotes = 8

type runtimeDiagnosticContext struct {
	node      ast.Node
	callStack []runtimeCallFrame
}

type runtimeDiagnosticError struct {
	err     error
	context *runtimeDiagnosticContext
}

func (e runtimeDiagnosticError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e runtimeDiagnosticError) Unwrap() error {
	return e.err
}

type RuntimeDiagnosticNote struct {
	Message  string
	Location driver.DiagnosticLocation
}

type RuntimeDiagnostic struct {
	Severity driver.DiagnosticSeverity
	Kind     string
	Message  string
	Location driver.DiagnosticLocation
	Notes    []RuntimeDiagnosticNote
}

// BuildRuntimeDiagnostic locates err at the innermost node that failed and
// adds a note for every active call site.
func (i *Interpreter) BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	ctx := runtimeContextFromError(err)

	var location driver.DiagnosticLocation
	if ctx != nil && ctx.node != nil {
		location = i.runtimeLocationFromNode(ctx.node)
	}
	if location == (driver.DiagnosticLocation{}) && ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0; idx-- {
			location = i.runtimeLocationFromNode(ctx.callStack[idx].node)
			if location != (driver.DiagnosticLocation{}) {
				break
			}
		}
	}

	var notes []RuntimeDiagnosticNote
	if ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0 && len(notes) < maxDiagnosticNotes; idx-- {
			noteLocation := i.runtimeLocationFromNode(ctx.callStack[idx].node)
			if noteLocation == (driver.DiagnosticLocation{}) || runtimeLocationsEqual(noteLocation, location) {
				continue
			}
			notes = append(notes, RuntimeDiagnosticNote{
				Message:  "called from here",
				Location: noteLocation,
			})
		}
	}

	return RuntimeDiagnostic{
		Severity: driver.SeverityError,
		Kind:     ErrorKindOf(err).String(),
		Message:  runtimeMessageFromError(err),
		Location: location,
		Notes:    notes,
	}
}

// DescribeRuntimeDiagnostic renders a diagnostic as "<kind>: <location> <message>"
// followed by one line per note.
func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	kind := diag.Kind
	if kind == "" {
		kind = "runtime"
	}
	prefix := kind + ": "
	if diag.Severity == driver.SeverityWarning {
		prefix = "warning: " + prefix
	}
	var b strings.Builder
	if location := formatRuntimeLocation(diag.Location); location != "" {
		fmt.Fprintf(&b, "%s%s %s", prefix, location, message)
	} else {
		fmt.Fprintf(&b, "%s%s", prefix, message)
	}
	for _, note := range diag.Notes {
		if noteLoc := formatRuntimeLocation(note.Location); noteLoc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", noteLoc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

// attachRuntimeContext records the failing node once; outer nodes leave the
// innermost context in place.
func (i *Interpreter) attachRuntimeContext(err error, node ast.Node) error {
	if err == nil || node == nil {
		return err
	}
	if runtimeContextFromError(err) != nil {
		return err
	}
	return runtimeDiagnosticError{
		err: err,
		context: &runtimeDiagnosticContext{
			node:      node,
			callStack: i.snapshotCallStack(),
		},
	}
}

func runtimeContextFromError(err error) *runtimeDiagnosticContext {
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.context
	}
	return nil
}

func runtimeMessageFromError(err error) string {
	if err == nil {
		return ""
	}
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) && diagErr.err != nil {
		return diagErr.err.Error()
	}
	return err.Error()
}

func formatRuntimeLocation(loc driver.DiagnosticLocation) string {
	if loc.Path != "" {
		loc.Path = filepath.ToSlash(loc.Path)
	}
	return driver.FormatDiagnosticLocation(loc)
}

func (i *Interpreter) runtimeLocationFromNode(node ast.Node) driver.DiagnosticLocation {
	if node == nil {
		return driver.DiagnosticLocation{}
	}
	span := node.Span()
	if span.Start.Line == 0 {
		return driver.DiagnosticLocation{}
	}
	return driver.DiagnosticLocation{
		Path:      i.nodeOrigins[node],
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

func runtimeLocationsEqual(left, right driver.DiagnosticLocation) bool {
	if left == (driver.DiagnosticLocation{}) || right == (driver.DiagnosticLocation{}) {
		return false
	}
	return left.Path == right.Path && left.Line == right.Line && left.Column == right.Column
}
