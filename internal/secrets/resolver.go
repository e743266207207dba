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
	"strings"
)

// Resolver resolves secret references against a set of backends keyed by scheme.
type Resolver struct {
	backends map[string]Backend
}

// NewResolver creates a resolver with the given backends.
// Unavailable backends are still registered; resolution against them
// reports ErrBackendUnavailable rather than silently falling through.
func NewResolver(backends ...Backend) *Resolver {
	m := make(map[string]Backend, len(backends))
	for _, b := range backends {
		m[b.Scheme()] = b
	}
	return &Resolver{backends: m}
}

// DefaultResolver creates a resolver with the standard backend set:
// environment, file, and system keychain.
func DefaultResolver() *Resolver {
	return NewResolver(
		NewEnvBackend(),
		NewFileBackend(),
		NewKeychainBackend(""),
	)
}

// Resolve resolves a secret reference to its value.
//
//	${VAR}        -> environment variable VAR
//	env:VAR       -> environment variable VAR
//	file:/path    -> trimmed contents of /path
//	keychain:name -> keychain entry name
//
// Any other value is returned as a literal.
func (r *Resolver) Resolve(ctx context.Context, reference string) (string, error) {
	scheme, key, ok := parseReference(reference)
	if !ok {
		return reference, nil
	}

	backend, exists := r.backends[scheme]
	if !exists {
		return "", fmt.Errorf("no backend registered for scheme %q", scheme)
	}

	value, err := backend.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve %s:%s: %w", scheme, key, err)
	}
	return value, nil
}

// Store saves a secret under the given reference, which must name a
// writable backend (file: or keychain:).
func (r *Resolver) Store(ctx context.Context, reference, value string) error {
	scheme, key, ok := parseReference(reference)
	if !ok {
		return fmt.Errorf("cannot store to a literal reference; use file: or keychain:")
	}

	backend, exists := r.backends[scheme]
	if !exists {
		return fmt.Errorf("no backend registered for scheme %q", scheme)
	}

	if err := backend.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store %s:%s: %w", scheme, key, err)
	}
	return nil
}

// parseReference splits a secret reference into scheme and key.
// Returns ok=false for literal values.
func parseReference(reference string) (scheme, key string, ok bool) {
	// ${VAR} is shorthand for env:VAR
	if strings.HasPrefix(reference, "${") && strings.HasSuffix(reference, "}") {
		return "env", reference[2 : len(reference)-1], true
	}

	for _, s := range []string{"env", "file", "keychain"} {
		prefix := s + ":"
		if strings.HasPrefix(reference, prefix) {
			return s, reference[len(prefix):], true
		}
	}

	return "", "", false
}
