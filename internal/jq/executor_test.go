package jq

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		data       interface{}
		want       interface{}
		wantErr    bool
	}{
		{
			name:       "empty expression returns input",
			expression: "",
			data:       map[string]interface{}{"a": 1},
			want:       map[string]interface{}{"a": 1},
		},
		{
			name:       "field access",
			expression: ".status",
			data:       map[string]interface{}{"status": "processing"},
			want:       "processing",
		},
		{
			name:       "array length",
			expression: ".entities | length",
			data: map[string]interface{}{
				"entities": []interface{}{1, 2, 3},
			},
			want: 3,
		},
		{
			name:       "missing field yields nil",
			expression: ".missing",
			data:       map[string]interface{}{"a": 1},
			want:       nil,
		},
		{
			name:       "invalid expression",
			expression: ".[unclosed",
			data:       map[string]interface{}{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(0, 0)
			got, err := e.Execute(context.Background(), tt.expression, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			switch want := tt.want.(type) {
			case int:
				// gojq returns ints for length
				if got != want && got != interface{}(want) {
					gotInt, ok := got.(int)
					if !ok || gotInt != want {
						t.Errorf("Execute() = %v (%T), want %v", got, got, want)
					}
				}
			case map[string]interface{}:
				gotMap, ok := got.(map[string]interface{})
				if !ok || len(gotMap) != len(want) {
					t.Errorf("Execute() = %v, want %v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("Execute() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestExecutor_Execute_MultipleResults(t *testing.T) {
	e := NewExecutor(0, 0)

	got, err := e.Execute(context.Background(), ".[]", []interface{}{"a", "b"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	results, ok := got.([]interface{})
	if !ok || len(results) != 2 {
		t.Errorf("Execute() = %v, want 2-element array", got)
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	e := NewExecutor(50*time.Millisecond, 0)

	_, err := e.Execute(context.Background(), "def f: f; f", map[string]interface{}{"a": 1})
	if err == nil {
		t.Fatal("expected timeout error for non-terminating expression")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestExecutor_Execute_InputSizeLimit(t *testing.T) {
	e := NewExecutor(time.Second, 16)

	_, err := e.Execute(context.Background(), ".", map[string]interface{}{
		"key": "a value that is definitely longer than sixteen bytes",
	})
	if err == nil {
		t.Error("expected input size error")
	}
}

func TestExecutor_Validate(t *testing.T) {
	e := NewExecutor(0, 0)

	if err := e.Validate(".entities[] | ._id"); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := e.Validate(".[unclosed"); err == nil {
		t.Error("Validate() expected error for bad expression")
	}
	if err := e.Validate(""); err != nil {
		t.Errorf("Validate(\"\") unexpected error: %v", err)
	}
}
