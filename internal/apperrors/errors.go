// Package apperrors defines the error kinds shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how it should be surfaced to a caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConfiguration
	KindProvider
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindConfiguration:
		return "CONFIGURATION"
	case KindProvider:
		return "PROVIDER"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Error carries a kind, a message that is safe to show to a client, and the
// underlying cause if any.
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

func newf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, nil, format, args...)
}

func Configuration(format string, args ...interface{}) *Error {
	return newf(KindConfiguration, nil, format, args...)
}

// Provider wraps a failed call into a payment, storage or messaging provider.
func Provider(cause error, format string, args ...interface{}) *Error {
	return newf(KindProvider, cause, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, nil, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, nil, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message for err, or fallback when err is
// not an *Error.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
