// Package transport provides protocol-level abstractions for integration
// execution.
//
// The transport layer separates protocol concerns (connection handling,
// timeouts, rate limiting) from integration-level concerns (operation
// definition, input validation, response shaping). There is deliberately no
// retry layer: failed requests surface immediately to the caller.
package transport

import (
	"context"
)

// Transport executes requests with protocol-specific handling.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g., "http").
	Name() string
}

// Request represents a transport-agnostic request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH)
	// Required, must be non-empty
	Method string

	// URL is the full request URL
	// Required, must be valid per RFC 3986
	URL string

	// Headers are request headers (case-insensitive)
	// Optional, may be nil or empty map
	Headers map[string]string

	// Body is the request body
	// Optional, may be nil or empty slice
	Body []byte
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the response body
	Body []byte

	// Metadata contains transport-specific data (e.g., request ID)
	Metadata map[string]interface{}
}

// Standard metadata keys.
const (
	// MetadataRequestID is the client-generated request ID
	MetadataRequestID = "request_id"
)
