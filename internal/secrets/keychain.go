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
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultKeychainService is the keychain service name used for all entries.
const DefaultKeychainService = "conductor-air"

// KeychainBackend resolves secrets from the system keychain.
//
// Supported platforms:
//   - macOS: Keychain Access
//   - Linux: Secret Service API (GNOME Keyring, KWallet)
//   - Windows: Credential Manager
type KeychainBackend struct {
	service   string
	available bool
}

// NewKeychainBackend creates a new keychain backend.
// The service parameter specifies the keychain service name; an empty
// string selects DefaultKeychainService.
func NewKeychainBackend(service string) *KeychainBackend {
	if service == "" {
		service = DefaultKeychainService
	}

	b := &KeychainBackend{
		service:   service,
		available: true,
	}

	// Probe keychain availability. ErrNotFound means the keychain works
	// but has no such entry, which is fine.
	_, err := keyring.Get(service, "__availability_probe__")
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		b.available = false
	}

	return b
}

// Scheme returns "keychain".
func (k *KeychainBackend) Scheme() string {
	return "keychain"
}

// Get retrieves a secret from the system keychain.
func (k *KeychainBackend) Get(_ context.Context, key string) (string, error) {
	if !k.available {
		return "", fmt.Errorf("%w: system keychain unavailable or locked", ErrBackendUnavailable)
	}

	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: keychain entry %q", ErrSecretNotFound, key)
		}
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return value, nil
}

// Set stores a secret in the system keychain.
func (k *KeychainBackend) Set(_ context.Context, key, value string) error {
	if !k.available {
		return fmt.Errorf("%w: system keychain unavailable or locked", ErrBackendUnavailable)
	}
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

// Available returns true if the keychain service can be reached.
func (k *KeychainBackend) Available() bool {
	return k.available
}
