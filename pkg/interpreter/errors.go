package interpreter

import (
	"context"
	"errors"

	"lumen/interpreter-go/pkg/lexer"
	"lumen/interpreter-go/pkg/parser"
	"lumen/interpreter-go/pkg/runtime"
)

// ErrorKindOf classifies any error produced by the lexer, parser or
// evaluator. Errors from host natives that are not *runtime.Error report
// ErrorKindUnknown.
func ErrorKindOf(err error) runtime.ErrorKind {
	if err == nil {
		return runtime.ErrorKindUnknown
	}
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return runtime.LexError
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		if parseErr.TooDeep {
			return runtime.StackOverflow
		}
		return runtime.ParseError
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return runtime.Cancelled
	}
	return runtime.ErrorKindUnknown
}
