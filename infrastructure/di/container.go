package di

import (
	"holocron/application/commands/bus"
	"holocron/application/queries"
	querybus "holocron/application/queries/bus"
	"holocron/application/services"
	"holocron/infrastructure/config"
	"holocron/interfaces/http/rest"
	"holocron/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Collector
	QueryClient *queries.QueryClient
	Form        *services.CharacterForm
	Sessions    *services.SessionManager
	SessionCfg  services.SessionConfig
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	Router      *rest.Router
}
