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

package commands

import (
	"context"
	"fmt"

	"github.com/tombee/conductor-air/internal/config"
	"github.com/tombee/conductor-air/internal/integration"
	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/api"
	"github.com/tombee/conductor-air/internal/operation/transport"
	"github.com/tombee/conductor-air/internal/secrets"
)

// loadConfig reads the config file, applying env overrides.
func loadConfig() (*config.Config, error) {
	path := rootFlags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// buildConnector assembles the AIR connector from configuration: token
// resolution through the secrets resolver, HTTP transport, integration
// construction.
func buildConnector(ctx context.Context) (operation.Connector, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := secrets.DefaultResolver().Resolve(ctx, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("resolving API token: %w", err)
	}

	httpTransport := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Timeout:           cfg.Timeout,
		TLSInsecure:       cfg.TLSInsecure,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	return integration.New("air", &api.ProviderConfig{
		Transport: httpTransport,
		BaseURL:   cfg.NormalizedInstanceURL(),
		Token:     token,
	})
}
