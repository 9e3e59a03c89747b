// Package apperr defines the closed set of error kinds the API can surface.
//
// Handlers never echo raw error text to clients: the kind decides the HTTP
// status and the public message, while the wrapped cause goes to the logs.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the closed taxonomy.
type Kind int

const (
	// Internal is the catch-all; clients see a constant generic message.
	Internal Kind = iota
	// Validation: the input failed a field-level rule.
	Validation
	// NotFound: the addressed resource does not exist.
	NotFound
	// UnknownReference: the input referenced a record that does not exist
	// (e.g. a patient email with no matching user).
	UnknownReference
	// Conflict: the operation collides with existing state.
	Conflict
	// Unauthorized: missing or invalid credentials.
	Unauthorized
	// Forbidden: authenticated but not allowed.
	Forbidden
	// Unavailable: an external collaborator (gateway, cache) failed.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case UnknownReference:
		return "unknown_reference"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case UnknownReference:
		return http.StatusNotAcceptable
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a client-safe message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string // safe to show to clients
	Err     error  // internal cause, logs only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around an internal cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the client-safe message for err. Anything that is not an
// *Error collapses to the constant internal message so raw error text never
// leaks to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal Server Error"
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
