// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		reference  string
		wantScheme string
		wantKey    string
		wantOK     bool
	}{
		{"${AIR_TOKEN}", "env", "AIR_TOKEN", true},
		{"env:AIR_TOKEN", "env", "AIR_TOKEN", true},
		{"file:/etc/air/token", "file", "/etc/air/token", true},
		{"keychain:air-token", "keychain", "air-token", true},
		{"raw-literal-token", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		scheme, key, ok := parseReference(tt.reference)
		if scheme != tt.wantScheme || key != tt.wantKey || ok != tt.wantOK {
			t.Errorf("parseReference(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.reference, scheme, key, ok, tt.wantScheme, tt.wantKey, tt.wantOK)
		}
	}
}

func TestResolver_Resolve_Env(t *testing.T) {
	t.Setenv("AIR_TEST_TOKEN", "api_secret123")

	r := NewResolver(NewEnvBackend())

	for _, ref := range []string{"${AIR_TEST_TOKEN}", "env:AIR_TEST_TOKEN"} {
		got, err := r.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", ref, err)
		}
		if got != "api_secret123" {
			t.Errorf("Resolve(%q) = %q, want api_secret123", ref, got)
		}
	}
}

func TestResolver_Resolve_EnvMissing(t *testing.T) {
	r := NewResolver(NewEnvBackend())

	_, err := r.Resolve(context.Background(), "env:AIR_DEFINITELY_UNSET_VAR")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestResolver_Resolve_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("  file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(NewFileBackend())

	got, err := r.Resolve(context.Background(), "file:"+path)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "file-token" {
		t.Errorf("Resolve = %q, want trimmed 'file-token'", got)
	}
}

func TestResolver_Resolve_FileRelativePathRejected(t *testing.T) {
	r := NewResolver(NewFileBackend())

	if _, err := r.Resolve(context.Background(), "file:relative/token"); err == nil {
		t.Error("expected error for relative path")
	}
}

func TestResolver_Resolve_Literal(t *testing.T) {
	r := NewResolver(NewEnvBackend())

	got, err := r.Resolve(context.Background(), "plain-value")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "plain-value" {
		t.Errorf("Resolve = %q, want literal passthrough", got)
	}
}

func TestResolver_Resolve_UnknownScheme(t *testing.T) {
	r := NewResolver(NewEnvBackend())

	if _, err := r.Resolve(context.Background(), "keychain:entry"); err == nil {
		t.Error("expected error for unregistered scheme")
	}
}

func TestResolver_Store_LiteralRejected(t *testing.T) {
	r := NewResolver(NewEnvBackend())

	if err := r.Store(context.Background(), "literal", "v"); err == nil {
		t.Error("expected error storing to literal reference")
	}
}

func TestEnvBackend_ReadOnly(t *testing.T) {
	b := NewEnvBackend()
	if err := b.Set(context.Background(), "K", "V"); !errors.Is(err, ErrReadOnlyBackend) {
		t.Errorf("expected ErrReadOnlyBackend, got %v", err)
	}
}
