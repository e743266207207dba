package air

import (
	"fmt"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

// AIRError represents an unsuccessful AIR API response envelope.
type AIRError struct {
	// Errors is the envelope's errors list
	Errors []string

	// StatusCode is the HTTP status code of the response
	StatusCode int

	// EnvelopeStatusCode is the statusCode field inside the envelope,
	// which some endpoints set independently of the transport status
	EnvelopeStatusCode int
}

// Error implements the error interface.
func (e *AIRError) Error() string {
	msg := "AIR API error"
	if len(e.Errors) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Errors, "; "))
	} else {
		msg = fmt.Sprintf("%s: %s", msg, defaultMessage(e.StatusCode))
	}
	return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
}

// Type classifies the error for the operation error taxonomy.
func (e *AIRError) Type() operation.ErrorType {
	if e.StatusCode >= 400 {
		return operation.ClassifyHTTPError(e.StatusCode)
	}
	return operation.ErrorTypeAPI
}

// newAIRError builds an AIRError from a failed envelope.
func newAIRError(env *Envelope, httpStatus int) *AIRError {
	return &AIRError{
		Errors:             env.Errors,
		StatusCode:         httpStatus,
		EnvelopeStatusCode: env.StatusCode,
	}
}

// defaultMessage returns a fallback message for a status code when the
// envelope carries no errors.
func defaultMessage(statusCode int) string {
	switch statusCode {
	case 400:
		return "bad request - check your input parameters"
	case 401:
		return "unauthorized - check your API token"
	case 403:
		return "forbidden - the token lacks permission for this resource"
	case 404:
		return "not found - the requested resource does not exist"
	case 429:
		return "rate limit exceeded - too many requests"
	case 500:
		return "internal server error"
	case 502:
		return "bad gateway"
	case 503:
		return "service unavailable"
	default:
		return fmt.Sprintf("request failed with status %d", statusCode)
	}
}
