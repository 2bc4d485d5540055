// Package apperr defines the application error taxonomy.
//
// Every failure the stores and the web layer can produce falls into one of a
// fixed set of kinds. Handlers translate kinds into HTTP responses; nothing
// below the web layer knows about status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds for categorizing errors.
const (
	KindValidation   = "VALIDATION"
	KindNotFound     = "NOT_FOUND"
	KindConflict     = "CONFLICT"
	KindAuth         = "AUTH"
	KindForgeryToken = "FORGERY_TOKEN"
	KindInternal     = "INTERNAL"
)

// Sentinel errors for use with errors.Is().
var (
	// Validation errors
	ErrEmptyTitle     = errors.New("todo title cannot be empty")
	ErrInvalidDueDate = errors.New("due date is not a valid date")
	ErrMissingField   = errors.New("required field is missing")

	// Lookup errors
	ErrTodoNotFound    = errors.New("todo not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")

	// Signup errors
	ErrEmailTaken = errors.New("email is already registered")

	// Auth errors. ErrInvalidCredentials deliberately covers both an unknown
	// email and a wrong password so callers cannot tell the cases apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session has expired")

	// Forgery token errors
	ErrForgeryToken = errors.New("missing or mismatched forgery token")
)

// Error is a structured error type that carries a kind and an optional
// wrapped error.
type Error struct {
	Kind    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given kind, message, and optional wrapped
// error.
func New(kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of an error, walking the wrap chain. Errors outside
// the taxonomy report KindInternal.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case IsValidation(err):
		return KindValidation
	case IsNotFound(err):
		return KindNotFound
	case errors.Is(err, ErrEmailTaken):
		return KindConflict
	case IsAuth(err):
		return KindAuth
	case errors.Is(err, ErrForgeryToken):
		return KindForgeryToken
	default:
		return KindInternal
	}
}

// IsValidation returns true if the error is a malformed-input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrInvalidDueDate) ||
		errors.Is(err, ErrMissingField)
}

// IsNotFound returns true if the error is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTodoNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsAuth returns true if the error is an authentication error.
func IsAuth(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrSessionExpired)
}
