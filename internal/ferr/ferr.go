// Package ferr defines the fatal error kinds raised by the translation
// core (spec.md §7), in the category+code+message shape of the teacher's
// internal/errors.StandardError.
package ferr

import "fmt"

// Kind enumerates spec.md §7's error table.
type Kind string

const (
	UnsupportedTerm    Kind = "UNSUPPORTED_TERM"
	UnsupportedHead    Kind = "UNSUPPORTED_HEAD"
	UnsupportedBody    Kind = "UNSUPPORTED_BODY"
	UnsupportedFeature Kind = "UNSUPPORTED_FEATURE"
	MultipleInputs     Kind = "MULTIPLE_INPUTS"
	IOError            Kind = "IO_ERROR"
	ParseError         Kind = "PARSE_ERROR"
	Internal           Kind = "INTERNAL"
)

// Error is the fatal error type every core phase returns. StatementIndex
// is -1 when the error is not attributable to one source statement (e.g.
// MultipleInputs).
type Error struct {
	Kind           Kind
	Message        string
	StatementIndex int
	Cause          error
}

// New creates an Error not attributed to a particular statement.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), StatementIndex: -1}
}

// At creates an Error attributed to the statement at index i.
func At(kind Kind, i int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), StatementIndex: i}
}

// Wrap creates an Internal error chained to cause.
func Wrap(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), StatementIndex: -1, Cause: cause}
}

func (e *Error) Error() string {
	if e.StatementIndex >= 0 {
		return fmt.Sprintf("[%s] statement %d: %s", e.Kind, e.StatementIndex, e.Message)
	}

	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
