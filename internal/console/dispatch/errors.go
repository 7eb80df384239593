package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotExpression is returned by an Evaluator when text does not parse
// as an expression, signalling the dispatcher to retry it as a
// statement block.
var ErrNotExpression = errors.New("dispatch: not an expression")

// Kind classifies a dispatch failure.
type Kind uint8

// Dispatch failure kinds. All are surfaced to the user and none are
// fatal to the host: the session is already torn down before dispatch
// runs.
const (
	// KindInvalidMode: dispatcher invoked with an unrecognized mode.
	KindInvalidMode Kind = iota
	// KindWriteFailure: the write half of a write-then-quit failed; the
	// quit was aborted.
	KindWriteFailure
	// KindExecutionFailure: the host's generic command execution failed.
	KindExecutionFailure
	// KindEvaluationError: expression or statement evaluation failed.
	KindEvaluationError
	// KindSearchFailure: pattern search failed.
	KindSearchFailure
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidMode:
		return "invalid mode"
	case KindWriteFailure:
		return "write failure"
	case KindExecutionFailure:
		return "execution failure"
	case KindEvaluationError:
		return "evaluation error"
	case KindSearchFailure:
		return "search failure"
	default:
		return "unknown"
	}
}

// Error is a classified dispatch failure carrying the user-facing
// message (already sanitized where required).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// newError builds a classified error wrapping err.
func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf extracts the failure kind from err. ok is false when err is not
// a dispatch error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
