package api

import (
	"context"
	"testing"

	"github.com/tombee/conductor-air/internal/operation/transport"
)

// fakeTransport records the last request and returns a canned response.
type fakeTransport struct {
	lastReq *transport.Request
	resp    *transport.Response
	err     error
}

func (f *fakeTransport) Execute(_ context.Context, req *transport.Request) (*transport.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &transport.Response{StatusCode: 200}, nil
}

func (f *fakeTransport) Name() string { return "fake" }

func TestBuildURL(t *testing.T) {
	p := NewBaseProvider("test", &ProviderConfig{BaseURL: "https://air.example.com/api/public"})

	tests := []struct {
		name     string
		template string
		inputs   map[string]interface{}
		want     string
		wantErr  bool
	}{
		{
			name:     "no parameters",
			template: "/assets",
			inputs:   nil,
			want:     "https://air.example.com/api/public/assets",
		},
		{
			name:     "path parameter",
			template: "/tasks/{id}",
			inputs:   map[string]interface{}{"id": "task-1"},
			want:     "https://air.example.com/api/public/tasks/task-1",
		},
		{
			name:     "numeric parameter",
			template: "/organizations/{id}/users",
			inputs:   map[string]interface{}{"id": 42},
			want:     "https://air.example.com/api/public/organizations/42/users",
		},
		{
			name:     "missing parameter",
			template: "/tasks/{id}",
			inputs:   map[string]interface{}{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.BuildURL(tt.template, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteRequest_BearerAuth(t *testing.T) {
	ft := &fakeTransport{}
	p := NewBaseProvider("test", &ProviderConfig{
		Transport: ft,
		BaseURL:   "https://air.example.com/api/public",
		Token:     "secret-token",
	})

	_, err := p.ExecuteRequest(context.Background(), "GET", "https://air.example.com/api/public/assets", nil, nil)
	if err != nil {
		t.Fatalf("ExecuteRequest() error: %v", err)
	}

	if got := ft.lastReq.Headers["Authorization"]; got != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer header", got)
	}
}

func TestValidateRequired(t *testing.T) {
	p := NewBaseProvider("test", &ProviderConfig{})

	if err := p.ValidateRequired(map[string]interface{}{"id": "x"}, []string{"id"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.ValidateRequired(map[string]interface{}{}, []string{"id"}); err == nil {
		t.Error("expected error for missing parameter")
	}
	if err := p.ValidateRequired(map[string]interface{}{"id": "  "}, []string{"id"}); err == nil {
		t.Error("expected error for blank parameter")
	}
	if err := p.ValidateRequired(map[string]interface{}{"id": nil}, []string{"id"}); err == nil {
		t.Error("expected error for nil parameter")
	}
}
