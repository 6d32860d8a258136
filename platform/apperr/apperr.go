// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer middleware
// automatically maps them to appropriate HTTP status codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindMissingCredential indicates no backend API key could be resolved.
	KindMissingCredential
	// KindUnsupportedFormat indicates the uploaded media type is not allowed,
	// either by local validation or by the backend.
	KindUnsupportedFormat
	// KindStaging indicates an I/O failure while persisting the upload.
	KindStaging
	// KindAuthentication indicates the backend rejected the credential.
	KindAuthentication
	// KindTransientBackend indicates a retryable backend failure
	// (network, timeout, rate limit). The pipeline itself never retries.
	KindTransientBackend
	// KindUnknownBackend indicates an unclassified backend failure.
	KindUnknownBackend
	// KindValidation indicates invalid input data at the HTTP boundary.
	KindValidation
	// KindBadRequest indicates a malformed or invalid request.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// String returns a stable identifier for the kind, used in logs and events.
func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindStaging:
		return "staging"
	case KindAuthentication:
		return "authentication"
	case KindTransientBackend:
		return "transient_backend"
	case KindUnknownBackend:
		return "unknown_backend"
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindMissingCredential, KindAuthentication:
		return http.StatusUnauthorized
	case KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case KindStaging, KindInternal:
		return http.StatusInternalServerError
	case KindTransientBackend:
		return http.StatusServiceUnavailable
	case KindUnknownBackend:
		return http.StatusBadGateway
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// MissingCredential creates a missing-credential error.
func MissingCredential(message string) *Error {
	return New(KindMissingCredential, message)
}

// UnsupportedFormat creates an unsupported-format error.
func UnsupportedFormat(message string) *Error {
	return New(KindUnsupportedFormat, message)
}

// Staging creates a staging error.
func Staging(message string) *Error {
	return New(KindStaging, message)
}

// Authentication creates an authentication error.
func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

// TransientBackend creates a transient backend error.
func TransientBackend(message string) *Error {
	return New(KindTransientBackend, message)
}

// UnknownBackend creates an unknown backend error.
func UnknownBackend(message string) *Error {
	return New(KindUnknownBackend, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
