package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPTransport_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing auth header")
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing request ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	tr := NewHTTPTransport(nil)

	resp, err := tr.Execute(context.Background(), &Request{
		Method:  "GET",
		URL:     server.URL + "/api/public/assets",
		Headers: map[string]string{"Authorization": "Bearer tok"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		t.Error("expected response body")
	}
	if resp.Metadata[MetadataRequestID] == "" {
		t.Error("expected request ID in metadata")
	}
}

func TestHTTPTransport_Execute_NonSuccessStatusIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"errors":["validation failed"]}`))
	}))
	defer server.Close()

	tr := NewHTTPTransport(nil)

	resp, err := tr.Execute(context.Background(), &Request{Method: "POST", URL: server.URL})
	if err != nil {
		t.Fatalf("non-2xx must not be a transport error, got: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
}

func TestHTTPTransport_Execute_InvalidRequest(t *testing.T) {
	tr := NewHTTPTransport(nil)

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"missing method", &Request{URL: "https://air.example.com"}},
		{"bad scheme", &Request{Method: "GET", URL: "ftp://air.example.com"}},
		{"no host", &Request{Method: "GET", URL: "https://"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Execute(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHTTPTransport_Execute_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	tr := NewHTTPTransport(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := tr.Execute(ctx, &Request{Method: "GET", URL: server.URL})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation not honored promptly")
	}
}

func TestHTTPTransport_RateLimiting(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// 20 rps: three sequential requests need at least ~100ms.
	tr := NewHTTPTransport(&HTTPTransportConfig{RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := tr.Execute(context.Background(), &Request{Method: "GET", URL: server.URL}); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("rate limiter not applied, 3 requests took %v", elapsed)
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}
