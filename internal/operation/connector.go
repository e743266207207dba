// Package operation defines the host-facing execution model for API
// integrations.
//
// An integration exposes named operations that execute without any local
// state: parameters in, one or more HTTP calls, a shaped Result out.
package operation

import (
	"context"
)

// Connector represents a configured external integration.
// Each connector can execute multiple named operations.
type Connector interface {
	// Name returns the connector identifier
	Name() string

	// Execute runs a named operation with the given inputs
	Execute(ctx context.Context, operation string, inputs map[string]interface{}) (*Result, error)
}

// PaginatedConnector extends Connector to support paginated operations.
// Connectors whose list operations can span multiple pages implement this
// interface to stream results through a channel.
type PaginatedConnector interface {
	Connector

	// ExecutePaginated returns a channel of results for paginated operations.
	// The channel is closed when all results have been sent or an error occurs.
	// Errors are included in the Result.Metadata["error"] field.
	//
	// Supported options in inputs:
	// - paginate: bool - Enable pagination (default: false)
	// - max_results: int - Maximum number of results to return (default: unlimited)
	// - page_size: int - Number of results per page (default: API-specific)
	ExecutePaginated(ctx context.Context, operation string, inputs map[string]interface{}) (<-chan *Result, error)
}

// Result represents the output of a connector operation.
type Result struct {
	// Response is the shaped response data
	Response interface{}

	// RawResponse is the original response body before shaping (for debugging)
	RawResponse interface{}

	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Metadata contains execution metadata (request ID, pagination info, etc.)
	Metadata map[string]interface{}
}

// GetResponse returns the shaped response data.
func (r *Result) GetResponse() interface{} {
	return r.Response
}

// GetStatusCode returns the HTTP status code.
func (r *Result) GetStatusCode() int {
	return r.StatusCode
}

// GetMetadata returns execution metadata.
func (r *Result) GetMetadata() map[string]interface{} {
	return r.Metadata
}
