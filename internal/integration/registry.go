// Package integration hosts the builtin API integrations and the registry
// the command layer resolves them through.
package integration

import (
	"github.com/tombee/conductor-air/internal/integration/air"
	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/api"
)

// BuiltinRegistry holds all built-in API integration factories.
var BuiltinRegistry = map[string]func(config *api.ProviderConfig) (operation.Connector, error){
	"air": func(config *api.ProviderConfig) (operation.Connector, error) {
		return air.NewAIRIntegration(config)
	},
}

// New resolves a named integration and builds it with the given config.
func New(name string, config *api.ProviderConfig) (operation.Connector, error) {
	factory, ok := BuiltinRegistry[name]
	if !ok {
		return nil, operation.NewValidationError("unknown integration: %s", name)
	}
	return factory(config)
}
