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

// Package config loads and validates the AIR connector configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// Config represents the complete connector configuration.
type Config struct {
	// InstanceURL is the AIR console base URL (e.g., https://air.example.com).
	// Environment: AIR_INSTANCE_URL
	InstanceURL string `yaml:"instance_url"`

	// Token is the API token secret reference (${VAR}, env:, file:, keychain:)
	// or a literal token.
	// Environment: AIR_API_TOKEN
	Token string `yaml:"token"`

	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// TLSInsecure disables TLS certificate validation.
	// Only for development against self-signed AIR consoles.
	TLSInsecure bool `yaml:"tls_insecure,omitempty"`

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format sets the output format (json, text).
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with defaults applied.
func Default() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns the default configuration file location,
// ~/.conductor-air/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".conductor-air", "config.yaml"), nil
}

// Load reads configuration from the given path, then applies environment
// overrides. A missing file is not an error; environment-only configuration
// is supported.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// applyEnv overrides file-based settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("AIR_INSTANCE_URL"); v != "" {
		c.InstanceURL = v
	}
	if v := os.Getenv("AIR_API_TOKEN"); v != "" {
		c.Token = v
	}
}

// Validate checks that the configuration is complete enough to reach an
// AIR console.
func (c *Config) Validate() error {
	if c.InstanceURL == "" {
		return fmt.Errorf("%w: instance_url is required (or set AIR_INSTANCE_URL)", ErrInvalidConfig)
	}

	u, err := url.Parse(c.InstanceURL)
	if err != nil {
		return fmt.Errorf("%w: instance_url: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: instance_url scheme must be http or https, got %q", ErrInvalidConfig, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: instance_url must include a host", ErrInvalidConfig)
	}

	if c.Token == "" {
		return fmt.Errorf("%w: token is required (or set AIR_API_TOKEN)", ErrInvalidConfig)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must be non-negative", ErrInvalidConfig)
	}

	return nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed. Token references are written as-is; Save must
// never be handed a resolved secret.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// NormalizedInstanceURL returns the instance URL without a trailing slash.
func (c *Config) NormalizedInstanceURL() string {
	return strings.TrimRight(c.InstanceURL, "/")
}
