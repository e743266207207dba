package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseBody bounds response reads (32MB). Evidence downloads stream
// through dedicated endpoints and stay well under this.
const maxResponseBody = 32 * 1024 * 1024

// HTTPTransport implements the Transport interface for HTTP/HTTPS requests.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

// HTTPTransportConfig configures the HTTP transport.
type HTTPTransportConfig struct {
	// Timeout is the request timeout (default: 30s)
	Timeout time.Duration

	// TLSInsecure disables TLS certificate validation (default: false)
	// WARNING: Only use for development/testing
	TLSInsecure bool

	// RequestsPerSecond enables client-side rate limiting when > 0.
	// Requests block until the limiter admits them.
	RequestsPerSecond float64
}

// NewHTTPTransport creates an HTTP transport from the given configuration.
func NewHTTPTransport(config *HTTPTransportConfig) *HTTPTransport {
	if config == nil {
		config = &HTTPTransportConfig{}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	if config.TLSInsecure {
		httpTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout:   timeout,
			Transport: httpTransport,
		},
		limiter: limiter,
	}
}

// Name returns "http".
func (t *HTTPTransport) Name() string {
	return "http"
}

// Execute sends an HTTP request and returns the response.
// Non-2xx status codes are not errors at this layer; envelope handling is
// the integration's responsibility.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Metadata: map[string]interface{}{
			MetadataRequestID: requestID,
		},
	}, nil
}

// validateRequest checks request fields before execution.
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.Method == "" {
		return fmt.Errorf("request method is required")
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid request URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("request URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("request URL must include a host")
	}

	return nil
}

// classifyTransportError distinguishes timeouts from connection failures.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("connection failed: %w", err)
}
