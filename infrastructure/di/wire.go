//go:build wireinject
// +build wireinject

package di

import (
	"holocron/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideCharacterAPI,
	ProvideInMemoryCache,
	ProvideCache,
	ProvideOverlayStore,
	ProvideCharacterValidator,
	ProvideCharacterForm,
	ProvideQueryClient,
	ProvideSessionConfig,
	ProvideSessionManager,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup func
// stops background sweepers and closes live sessions.
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
