package errs

import (
	"errors"
	"net/http"
)

// Code is an application error code.
type Code string

const (
	// MissingField: a required input is absent or empty.
	MissingField Code = "missing_field"
	// InvalidArgument: signup-style validation failure (bad type, length, whitespace).
	InvalidArgument Code = "invalid_argument"
	// MalformedID: a reference is not in the id format.
	MalformedID Code = "malformed_id"
	// NotFound: no document at the owner-scoped id. Cross-tenant hits report
	// this too, so existence never leaks across owners.
	NotFound Code = "not_found"
	// InvalidReference: a folder or tag reference that does not resolve under
	// the caller's ownership.
	InvalidReference Code = "invalid_reference"
	// DuplicateKey: per-user folder/tag name uniqueness violation.
	DuplicateKey Code = "duplicate_key"
	// DuplicateUser: username already taken.
	DuplicateUser Code = "duplicate_user"
	// Unauthorized: missing or invalid credential.
	Unauthorized Code = "unauthorized"
	// Internal: anything unexpected.
	Internal Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// MessageOf returns a user-facing error message.
// If the error has no typed wrapper, returns "internal error" to prevent
// leaking raw store errors, file paths, or connection strings to API responses.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return "internal error"
}

// HTTPStatus maps error code to HTTP status.
//
// Two mappings are deliberate oddities inherited from the observed behavior
// of the system this replaces, kept for wire compatibility: owner-scoped
// lookup misses answer 400 rather than 404, and folder/tag name conflicts
// answer 404 rather than 409.
func HTTPStatus(code Code) int {
	switch code {
	case MissingField, MalformedID, NotFound, DuplicateUser:
		return http.StatusBadRequest
	case InvalidArgument, InvalidReference:
		return http.StatusUnprocessableEntity
	case DuplicateKey:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
