// Package dErrors defines the domain error taxonomy shared across services.
//
// Two code families matter to callers:
//   - CodeValidation: bad input shape or range, rejected before any state mutation.
//   - CodePrecondition: the entity is in a state that forbids the requested
//     transition; callers must branch on current state first.
//
// Neither family is retryable; both carry a machine-readable Reason (the guard
// or rule that rejected) so the calling UI can render an accurate message.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeValidation   Code = "validation"
	CodePrecondition Code = "precondition"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// DomainError is the error type returned by domain services and models.
type DomainError struct {
	Code    Code
	Reason  string // machine-readable guard or rule name, e.g. "appeal_window_closed"
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New creates a DomainError with the given code and message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Newf creates a DomainError with a formatted message.
func Newf(code Code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Guard creates a DomainError carrying the name of the guard that rejected.
func Guard(code Code, reason, message string) *DomainError {
	return &DomainError{Code: code, Reason: reason, Message: message}
}

// Wrap annotates an underlying error with a domain code and message.
func Wrap(err error, code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) is a DomainError with the code.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ReasonOf extracts the machine-readable reason, or "" for non-domain errors.
func ReasonOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

// ToHTTPStatus maps a domain code to an HTTP status for transport layers.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodePrecondition, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
