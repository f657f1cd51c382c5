package parser

import (
	"errors"
	"fmt"

	"lumen/interpreter-go/pkg/lexer"
)

// SourceLocation describes a 1-based source span.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus the location of the offending token.
type ParseError struct {
	Message  string
	Location SourceLocation
	// Incomplete is set when the input ended before the construct did.
	Incomplete bool
	// TooDeep is set when nesting exceeded the configured limit.
	TooDeep bool
}

func (e *ParseError) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Location.Line, e.Location.Column)
	}
	return e.Message
}

// IsIncomplete reports whether err is a parse error caused by running out of
// input, meaning more source could complete the program.
func IsIncomplete(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr) && parseErr.Incomplete
}

func tokenLocation(tok lexer.Token) SourceLocation {
	end := tokenEnd(tok)
	return SourceLocation{
		Line:      tok.Pos.Line,
		Column:    tok.Pos.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
	}
}

func errorAt(tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Message:    fmt.Sprintf(format, args...),
		Location:   tokenLocation(tok),
		Incomplete: tok.Kind == lexer.KindEOF,
	}
}
