// Package apperr holds the business error taxonomy shared by services and handlers.
package apperr

import "errors"

// Kind classifies a business rule violation.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Error is a business error carrying the message shown to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func InvalidInput(msg string) *Error     { return newError(KindInvalidInput, msg) }
func Unauthorized(msg string) *Error     { return newError(KindUnauthorized, msg) }
func Forbidden(msg string) *Error        { return newError(KindForbidden, msg) }
func NotFound(msg string) *Error         { return newError(KindNotFound, msg) }
func Conflict(msg string) *Error         { return newError(KindConflict, msg) }
func ValidationFailed(msg string) *Error { return newError(KindValidationFailed, msg) }

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown
// for anything that is not a business error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is a business error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
