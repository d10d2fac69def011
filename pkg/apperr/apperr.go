package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can map it to a status code
// in one place instead of string-matching messages.
type Kind int

const (
	// Validation covers malformed or incomplete input the caller can correct.
	Validation Kind = iota
	// NotFound means a referenced id does not resolve to a record.
	NotFound
	// Forbidden means the actor lacks the privilege for the operation.
	Forbidden
	// Conflict covers concurrent-update races and revision-link invariant violations.
	Conflict
	// CorruptGraph means a revision traversal exceeded its bound (cycle or bad data).
	CorruptGraph
	// Storage wraps database failures; retryable at the caller's discretion.
	Storage
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case CorruptGraph:
		return "corrupt_graph"
	case Storage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across service boundaries.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error without a wrapped cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain. The second return is false
// when no *Error is present in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given Kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
