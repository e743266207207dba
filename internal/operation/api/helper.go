package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/transport"
)

// BaseProvider provides common functionality for API integrations.
type BaseProvider struct {
	name      string
	transport transport.Transport
	baseURL   string
	token     string
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(name string, config *ProviderConfig) *BaseProvider {
	return &BaseProvider{
		name:      name,
		transport: config.Transport,
		baseURL:   config.BaseURL,
		token:     config.Token,
	}
}

// Name returns the integration identifier.
func (c *BaseProvider) Name() string {
	return c.name
}

// BaseURL returns the configured API base URL.
func (c *BaseProvider) BaseURL() string {
	return c.baseURL
}

// BuildURL constructs a full URL from a path template and inputs.
// Path templates use {param} syntax (e.g., "/assets/{id}/tasks").
func (c *BaseProvider) BuildURL(pathTemplate string, inputs map[string]interface{}) (string, error) {
	path := pathTemplate

	for key, value := range inputs {
		placeholder := fmt.Sprintf("{%s}", key)
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(fmt.Sprint(value)))
		}
	}

	// Check for unreplaced parameters
	if strings.Contains(path, "{") && strings.Contains(path, "}") {
		start := strings.Index(path, "{")
		end := strings.Index(path, "}")
		missing := path[start+1 : end]
		return "", operation.NewValidationError("missing required parameter: %s", missing)
	}

	return c.baseURL + path, nil
}

// ExecuteRequest sends an HTTP request with bearer authentication and
// returns the response.
func (c *BaseProvider) ExecuteRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (*transport.Response, error) {
	if c.token != "" {
		if headers == nil {
			headers = make(map[string]string)
		}
		headers["Authorization"] = "Bearer " + c.token
	}

	req := &transport.Request{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    body,
	}

	return c.transport.Execute(ctx, req)
}

// ToResult converts a transport response to an operation result.
func (c *BaseProvider) ToResult(resp *transport.Response, response interface{}) *operation.Result {
	return &operation.Result{
		Response:    response,
		RawResponse: resp.Body,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Headers,
		Metadata:    resp.Metadata,
	}
}

// ValidateRequired checks that all required parameters are present and
// non-empty in inputs.
func (c *BaseProvider) ValidateRequired(inputs map[string]interface{}, required []string) error {
	for _, param := range required {
		value, ok := inputs[param]
		if !ok || value == nil {
			return operation.NewValidationError("missing required parameter: %s", param)
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return operation.NewValidationError("required parameter %s is empty", param)
		}
	}
	return nil
}
