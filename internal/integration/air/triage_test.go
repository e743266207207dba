package air

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSearchIn(t *testing.T) {
	tests := []struct {
		name     string
		engine   string
		searchIn string
		want     string
		wantErr  bool
	}{
		{name: "yara defaults to filesystem", engine: "yara", want: "filesystem"},
		{name: "yara memory", engine: "yara", searchIn: "memory", want: "memory"},
		{name: "yara both", engine: "yara", searchIn: "both", want: "both"},
		{name: "yara invalid scope", engine: "yara", searchIn: "event-records", wantErr: true},
		{name: "sigma is fixed", engine: "sigma", want: "event-records"},
		{name: "sigma explicit match ok", engine: "sigma", searchIn: "event-records", want: "event-records"},
		{name: "sigma conflicting scope", engine: "sigma", searchIn: "memory", wantErr: true},
		{name: "osquery is fixed", engine: "osquery", want: "system"},
		{name: "osquery conflicting scope", engine: "osquery", searchIn: "filesystem", wantErr: true},
		{name: "unknown engine", engine: "snort", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSearchIn(tt.engine, tt.searchIn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateTriageRule_BodyShape(t *testing.T) {
	var gotBody map[string]interface{}
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": map[string]interface{}{"_id": "rule-1"},
		})
	}))

	_, err := conn.Execute(context.Background(), "create_triage_rule", map[string]interface{}{
		"description":      "find bad things",
		"rule":             "rule bad { condition: true }",
		"engine":           "YARA",
		"organization_ids": "0",
	})
	require.NoError(t, err)

	assert.Equal(t, "yara", gotBody["engine"])
	assert.Equal(t, "filesystem", gotBody["searchIn"])
	assert.Equal(t, []interface{}{float64(0)}, gotBody["organizationIds"])
}

// Engine/scope conflicts never reach the console.
func TestCreateTriageRule_RejectsScopeConflict(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid input")
	}))

	_, err := conn.Execute(context.Background(), "create_triage_rule", map[string]interface{}{
		"description": "d",
		"rule":        "r",
		"engine":      "sigma",
		"search_in":   "memory",
	})
	assert.Error(t, err)
}

// Rule validation failures arrive as a failed envelope on a 4xx; the
// operation must surface the envelope's messages, not a transport error.
func TestValidateTriageRule_EnvelopeErrors(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 422, map[string]interface{}{
			"success": false, "statusCode": 422,
			"errors": []string{"syntax error at line 3"}, "result": nil,
		})
	}))

	_, err := conn.Execute(context.Background(), "validate_triage_rule", map[string]interface{}{
		"rule":   "rule bad {",
		"engine": "yara",
	})
	require.Error(t, err)

	var airErr *AIRError
	require.ErrorAs(t, err, &airErr)
	assert.Contains(t, airErr.Error(), "syntax error at line 3")
}

func TestAssignTriageTask_RequiresFilter(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid input")
	}))

	_, err := conn.Execute(context.Background(), "assign_triage_task", map[string]interface{}{
		"case_id":         "c-1",
		"triage_rule_ids": "r-1,r-2",
	})
	assert.Error(t, err)
}

func TestAssignTriageTask_BodyShape(t *testing.T) {
	var gotBody map[string]interface{}
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": []map[string]interface{}{{"_id": "task-1"}},
		})
	}))

	_, err := conn.Execute(context.Background(), "assign_triage_task", map[string]interface{}{
		"case_id":               "c-1",
		"triage_rule_ids":       "r-1, r-2",
		"included_endpoint_ids": "ep-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "c-1", gotBody["caseId"])
	assert.Equal(t, []interface{}{"r-1", "r-2"}, gotBody["triageRuleIds"])

	filter := gotBody["filter"].(map[string]interface{})
	assert.Equal(t, []interface{}{"ep-1"}, filter["includedEndpointIds"])
}
