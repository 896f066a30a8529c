// Package apperr defines the error type shared across CashTimer packages
package apperr

import (
	"fmt"
)

// Error represents an application error. Message may contain format verbs
// which are filled in from Context when the error is rendered.
type Error struct {
	Cause   error
	Message string
	Context []any
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf(e.Message, e.Context...)
	}

	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}

	return msg
}

// Fmt returns a copy of the error with the given format arguments.
func (e *Error) Fmt(args ...any) *Error {
	err := *e
	err.Context = args

	return &err
}

// Wrap returns a copy of the error that carries the underlying cause.
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.Cause = cause

	return &err
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same message template. This
// lets copies produced by Fmt and Wrap match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == e.Message
}
