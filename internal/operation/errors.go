package operation

import (
	"fmt"
	"net/http"
)

// ErrorType classifies operation errors for appropriate handling.
type ErrorType string

const (
	// ErrorTypeAuth indicates authentication or authorization failure (401, 403)
	ErrorTypeAuth ErrorType = "auth_error"

	// ErrorTypeNotFound indicates resource not found (404, or a failed
	// name resolution)
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeValidation indicates invalid input, caught before any
	// network call where possible (400, 422)
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeAPI indicates the service reported failure in its response
	// envelope regardless of transport status
	ErrorTypeAPI ErrorType = "api_error"

	// ErrorTypeDecode indicates the response did not match the documented
	// shape for its endpoint family
	ErrorTypeDecode ErrorType = "decode_error"

	// ErrorTypeRateLimit indicates rate limit exceeded (429)
	ErrorTypeRateLimit ErrorType = "rate_limited"

	// ErrorTypeServer indicates server-side error (500, 502, 503, 504)
	ErrorTypeServer ErrorType = "server_error"

	// ErrorTypeTimeout indicates operation timeout
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeConnection indicates network/DNS error
	ErrorTypeConnection ErrorType = "connection_error"
)

// Error represents an operation execution error with classification.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is the human-readable error description
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// SuggestText provides guidance on how to resolve the error
	SuggestText string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message

	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Suggestion returns actionable guidance for resolving the error.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// ClassifyHTTPError classifies an HTTP status code into an error type.
func ClassifyHTTPError(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return ErrorTypeValidation
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeValidation
	}
}

// NewValidationError creates an error for invalid inputs caught before any
// network call.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{
		Type:        ErrorTypeValidation,
		Message:     fmt.Sprintf(format, args...),
		SuggestText: "Check operation inputs against the operation schema",
	}
}

// NewNotFoundError creates an error for a missing resource or a failed
// name lookup.
func NewNotFoundError(format string, args ...interface{}) *Error {
	return &Error{
		Type:        ErrorTypeNotFound,
		Message:     fmt.Sprintf(format, args...),
		SuggestText: "Verify the resource exists and the identifier is correct",
	}
}

// NewDecodeError creates an error for a response that deviates from its
// endpoint family's documented shape.
func NewDecodeError(endpointFamily string, cause error) *Error {
	return &Error{
		Type:        ErrorTypeDecode,
		Message:     fmt.Sprintf("unexpected response shape from %s endpoint", endpointFamily),
		Cause:       cause,
		SuggestText: "The service returned a response this client does not recognize; check the console version",
	}
}

// NewConnectionError creates an error for network/DNS failures.
func NewConnectionError(cause error) *Error {
	return &Error{
		Type:        ErrorTypeConnection,
		Message:     "connection failed",
		Cause:       cause,
		SuggestText: "Check network connectivity and DNS resolution",
	}
}

// NewTimeoutError creates an error for operation timeouts.
func NewTimeoutError(seconds int) *Error {
	return &Error{
		Type:        ErrorTypeTimeout,
		Message:     fmt.Sprintf("operation timed out after %d seconds", seconds),
		SuggestText: "Increase timeout or check service responsiveness",
	}
}
