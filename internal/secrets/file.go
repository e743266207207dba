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
	"path/filepath"
	"strings"
)

const (
	// maxSecretFileSize is the maximum allowed secret file size (64KB).
	maxSecretFileSize = 64 * 1024
)

// FileBackend resolves secrets from files on disk.
//
// Paths must be absolute; file contents are trimmed of surrounding
// whitespace. Files larger than 64KB are rejected.
type FileBackend struct{}

// NewFileBackend creates a new file backend.
func NewFileBackend() *FileBackend {
	return &FileBackend{}
}

// Scheme returns "file".
func (f *FileBackend) Scheme() string {
	return "file"
}

// Get reads a secret from the file at the given absolute path.
func (f *FileBackend) Get(_ context.Context, path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("secret file path must be absolute, got %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %q", ErrSecretNotFound, path)
		}
		return "", fmt.Errorf("stat secret file: %w", err)
	}
	if info.Size() > maxSecretFileSize {
		return "", fmt.Errorf("secret file %q exceeds %d bytes", path, maxSecretFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: file %q is empty", ErrSecretNotFound, path)
	}
	return value, nil
}

// Set writes a secret file with owner-only permissions.
func (f *FileBackend) Set(_ context.Context, path, value string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("secret file path must be absolute, got %q", path)
	}
	return os.WriteFile(path, []byte(value+"\n"), 0o600)
}

// Available always returns true.
func (f *FileBackend) Available() bool {
	return true
}
