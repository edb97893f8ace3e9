// Package errs defines the error taxonomy shared by the service layer.
//
// Every error returned across a service boundary carries a Kind so callers
// (and the HTTP layer) can distinguish caller mistakes from authorization
// failures, missing records, duplicates, and internal faults without string
// matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindValidation marks missing or malformed input. Not retryable.
	KindValidation Kind = iota + 1

	// KindAuthorization marks an actor lacking permission. Not retryable.
	KindAuthorization

	// KindNotFound marks a missing group, user, expense, or member.
	KindNotFound

	// KindConflict marks a duplicate (e.g., adding an existing member).
	KindConflict

	// KindInternal marks a persistence or infrastructure failure.
	// Eligible for caller-side retry.
	KindInternal
)

// Error is a classified error. Use the constructors below.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Authorization returns a KindAuthorization error.
func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps err as a KindInternal error. The wrapped error stays
// reachable through errors.Unwrap for logging; the message is what callers
// should surface.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
