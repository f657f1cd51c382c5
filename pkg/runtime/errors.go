package runtime

import "fmt"

// ErrorKind classifies failures anywhere in the pipeline.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	LexError
	ParseError
	DuplicateBinding
	UnboundName
	ConstantViolation
	InvalidAssignmentTarget
	NotCallable
	ArityMismatch
	StackOverflow
	InvalidOperandType
	InvalidMemberAccess
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case DuplicateBinding:
		return "DuplicateBinding"
	case UnboundName:
		return "UnboundName"
	case ConstantViolation:
		return "ConstantViolation"
	case InvalidAssignmentTarget:
		return "InvalidAssignmentTarget"
	case NotCallable:
		return "NotCallable"
	case ArityMismatch:
		return "ArityMismatch"
	case StackOverflow:
		return "StackOverflow"
	case InvalidOperandType:
		return "InvalidOperandType"
	case InvalidMemberAccess:
		return "InvalidMemberAccess"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is a runtime failure. Name holds the binding involved, when any.
type Error struct {
	Kind    ErrorKind
	Name    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Name)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDuplicateBinding        = &Error{Kind: DuplicateBinding}
	ErrUnboundName             = &Error{Kind: UnboundName}
	ErrConstantViolation       = &Error{Kind: ConstantViolation}
	ErrInvalidAssignmentTarget = &Error{Kind: InvalidAssignmentTarget}
	ErrNotCallable             = &Error{Kind: NotCallable}
	ErrArityMismatch           = &Error{Kind: ArityMismatch}
	ErrStackOverflow           = &Error{Kind: StackOverflow}
	ErrInvalidOperandType      = &Error{Kind: InvalidOperandType}
	ErrInvalidMemberAccess     = &Error{Kind: InvalidMemberAccess}
	ErrCancelled               = &Error{Kind: Cancelled}
)

// NewError builds a runtime error with a formatted message.
func NewError(kind ErrorKind, name string, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

func duplicateBinding(name string) *Error {
	return NewError(DuplicateBinding, name, "'%s' is already declared in this scope", name)
}

func unboundName(name string) *Error {
	return NewError(UnboundName, name, "Undefined variable '%s'", name)
}

func constantViolation(name string) *Error {
	return NewError(ConstantViolation, name, "Cannot assign to constant '%s'", name)
}
