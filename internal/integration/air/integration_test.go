package air

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tombee/conductor-air/internal/operation/api"
	"github.com/tombee/conductor-air/internal/operation/transport"
)

// newTestIntegration builds an integration pointed at an httptest server.
func newTestIntegration(t *testing.T, handler http.Handler) (*AIRIntegration, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conn, err := NewAIRIntegration(&api.ProviderConfig{
		Transport: transport.NewHTTPTransport(&transport.HTTPTransportConfig{Timeout: 5 * time.Second}),
		BaseURL:   server.URL,
		Token:     "test-token",
	})
	if err != nil {
		t.Fatalf("NewAIRIntegration() error = %v", err)
	}
	conn.pollInterval = time.Millisecond

	return conn, server
}

func writeEnvelope(w http.ResponseWriter, status int, env map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func writeEntityPage(w http.ResponseWriter, entities []map[string]interface{}, currentPage, totalPageCount, totalCount int) {
	writeEnvelope(w, 200, map[string]interface{}{
		"success":    true,
		"statusCode": 200,
		"errors":     []string{},
		"result": map[string]interface{}{
			"entities":         entities,
			"currentPage":      currentPage,
			"pageSize":         len(entities),
			"totalPageCount":   totalPageCount,
			"totalEntityCount": totalCount,
		},
	})
}

func TestNewAIRIntegration(t *testing.T) {
	tests := []struct {
		name    string
		config  *api.ProviderConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &api.ProviderConfig{BaseURL: "https://air.example.com", Token: "tok"},
			wantErr: false,
		},
		{
			name:    "trailing slash trimmed",
			config:  &api.ProviderConfig{BaseURL: "https://air.example.com/", Token: "tok"},
			wantErr: false,
		},
		{
			name:    "missing instance URL",
			config:  &api.ProviderConfig{Token: "tok"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := NewAIRIntegration(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAIRIntegration() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if conn.BaseURL() != "https://air.example.com/api/public" {
				t.Errorf("BaseURL() = %q, want public API prefix applied", conn.BaseURL())
			}
		})
	}
}

func TestAIRIntegration_Operations(t *testing.T) {
	conn, err := NewAIRIntegration(&api.ProviderConfig{BaseURL: "https://air.example.com"})
	if err != nil {
		t.Fatalf("NewAIRIntegration() error = %v", err)
	}

	ops := conn.Operations()
	if len(ops) == 0 {
		t.Fatal("Operations() returned no operations")
	}

	seen := map[string]bool{}
	for _, op := range ops {
		if seen[op.Name] {
			t.Errorf("duplicate operation %q", op.Name)
		}
		seen[op.Name] = true

		if op.Category == "" {
			t.Errorf("operation %q has no category", op.Name)
		}
		if conn.OperationSchema(op.Name) == nil {
			t.Errorf("operation %q has no schema", op.Name)
		}
	}

	for _, required := range []string{
		"list_assets", "isolate_asset", "get_deployment_packages",
		"validate_triage_rule", "wait_for_session", "export_case_notes",
	} {
		if !seen[required] {
			t.Errorf("Operations() missing %q", required)
		}
	}
}

func TestAIRIntegration_UnknownOperation(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	_, err := conn.Execute(context.Background(), "explode_asset", nil)
	if err == nil {
		t.Fatal("Execute() with unknown operation should fail")
	}
}

// The envelope decides success: a 200 with success=false must fail, and
// the error must carry the envelope's messages.
func TestAIRIntegration_EnvelopeDecidesSuccess(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, map[string]interface{}{
			"success":    false,
			"statusCode": 500,
			"errors":     []string{"license expired"},
			"result":     nil,
		})
	}))

	_, err := conn.Execute(context.Background(), "get_task", map[string]interface{}{"id": "42"})
	if err == nil {
		t.Fatal("Execute() should fail when the envelope reports failure")
	}

	airErr, ok := err.(*AIRError)
	if !ok {
		t.Fatalf("error type = %T, want *AIRError", err)
	}
	if airErr.EnvelopeStatusCode != 500 {
		t.Errorf("EnvelopeStatusCode = %d, want 500", airErr.EnvelopeStatusCode)
	}
	if airErr.Error() == "" || airErr.StatusCode != 200 {
		t.Errorf("unexpected error shape: %v (HTTP %d)", airErr, airErr.StatusCode)
	}
}

func TestAIRIntegration_BearerAuth(t *testing.T) {
	var gotAuth string
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": map[string]interface{}{"_id": "42", "status": "completed"},
		})
	}))

	if _, err := conn.Execute(context.Background(), "get_task", map[string]interface{}{"id": "42"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestAIRIntegration_ListAssets_FilterQuery(t *testing.T) {
	var gotQuery string
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEntityPage(w, []map[string]interface{}{{"_id": "ep-1", "name": "host-1"}}, 1, 1, 1)
	}))

	result, err := conn.Execute(context.Background(), "list_assets", map[string]interface{}{
		"platform":         "windows, linux",
		"tags":             "prod,,  dmz ",
		"organization_ids": "0,5",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"filter%5Bplatform%5D=windows%2Clinux",
		"filter%5Btags%5D=prod%2Cdmz",
		"filter%5BorganizationIds%5D=0%2C5",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	entities, ok := result.Response.([]map[string]interface{})
	if !ok || len(entities) != 1 {
		t.Fatalf("Response = %#v, want one entity", result.Response)
	}
}

// Numeric inputs arrive as float64 when the caller supplies them as JSON.
func TestAIRIntegration_ListTasks_JSONNumericInputs(t *testing.T) {
	var gotPageSize string
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPageSize = r.URL.Query().Get("pageSize")
		writeEntityPage(w, []map[string]interface{}{{"_id": "t1"}, {"_id": "t2"}}, 1, 1, 2)
	}))

	result, err := conn.Execute(context.Background(), "list_tasks", map[string]interface{}{
		"page_size":   float64(25),
		"max_results": float64(1),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if gotPageSize != "25" {
		t.Errorf("pageSize = %q, want 25", gotPageSize)
	}
	entities, ok := result.Response.([]map[string]interface{})
	if !ok || len(entities) != 1 {
		t.Fatalf("Response = %#v, want one entity after max_results", result.Response)
	}
}

func TestAIRIntegration_ExecutePaginated(t *testing.T) {
	pages := [][]map[string]interface{}{
		{{"_id": "t1"}, {"_id": "t2"}},
		{{"_id": "t3"}},
	}
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("pageNumber")
		switch page {
		case "1":
			writeEntityPage(w, pages[0], 1, 2, 3)
		case "2":
			writeEntityPage(w, pages[1], 2, 2, 3)
		default:
			t.Errorf("unexpected pageNumber %q", page)
		}
	}))

	results, err := conn.ExecutePaginated(context.Background(), "list_tasks", map[string]interface{}{
		"paginate":  true,
		"page_size": 2,
	})
	if err != nil {
		t.Fatalf("ExecutePaginated() error = %v", err)
	}

	var total int
	var pageCount int
	for result := range results {
		if errMsg, ok := result.Metadata["error"]; ok {
			t.Fatalf("page error: %v", errMsg)
		}
		records := result.Response.([]map[string]interface{})
		total += len(records)
		pageCount++
	}
	if pageCount != 2 || total != 3 {
		t.Errorf("got %d pages / %d records, want 2 pages / 3 records", pageCount, total)
	}
}

func TestAIRIntegration_MetricsRecorded(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": map[string]interface{}{"_id": "42"},
		})
	}))

	for i := 0; i < 3; i++ {
		if _, err := conn.Execute(context.Background(), "get_task", map[string]interface{}{"id": "42"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}

	stats := conn.Metrics().Stats()
	if stats["get_task"].Requests != 3 {
		t.Errorf("get_task requests = %d, want 3", stats["get_task"].Requests)
	}
}
