// Package apperr is the error taxonomy shared by services and handlers.
// Services translate raw persistence/storage failures into one of these
// kinds; handlers map kinds to HTTP statuses in a single place.
package apperr

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTokenExpired
	KindTokenInvalid
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func TokenExpired(message string) *Error {
	return &Error{Kind: KindTokenExpired, Message: message}
}

func TokenInvalid(message string) *Error {
	return &Error{Kind: KindTokenInvalid, Message: message}
}

// Internal wraps a lower-layer failure. The wrapped error is kept for logs
// and never rendered to API clients.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind, defaulting to KindInternal for errors
// that did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err. Non-taxonomy errors get
// a generic message so raw details never leak to the API boundary.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
