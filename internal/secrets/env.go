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
	"fmt"
	"os"
)

// EnvBackend resolves secrets from environment variables.
// It is read-only: tokens are set by the caller's environment, not by us.
type EnvBackend struct{}

// NewEnvBackend creates a new environment variable backend.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{}
}

// Scheme returns "env".
func (e *EnvBackend) Scheme() string {
	return "env"
}

// Get retrieves a secret from an environment variable.
// An unset or empty variable is treated as not found.
func (e *EnvBackend) Get(_ context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: environment variable %q", ErrSecretNotFound, key)
	}
	return value, nil
}

// Set is not supported for environment variables.
func (e *EnvBackend) Set(_ context.Context, _, _ string) error {
	return ErrReadOnlyBackend
}

// Available always returns true.
func (e *EnvBackend) Available() bool {
	return true
}
