package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"holocron/application/commands"
	"holocron/application/commands/bus"
	commands_handlers "holocron/application/commands/handlers"
	"holocron/application/ports"
	"holocron/application/queries"
	querybus "holocron/application/queries/bus"
	queries_handlers "holocron/application/queries/handlers"
	"holocron/application/services"
	"holocron/application/store"
	"holocron/domain/core/validators"
	"holocron/infrastructure/cache"
	"holocron/infrastructure/config"
	"holocron/infrastructure/swapi"
	"holocron/interfaces/http/rest"
	"holocron/pkg/errors"
	"holocron/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cacheSweepInterval is how often expired catalog responses are dropped.
const cacheSweepInterval = time.Minute

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are
// disabled. Every consumer accepts a nil collector.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("holocron")
}

// ProvideHTTPClient creates the catalog data client
func ProvideHTTPClient(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) *swapi.HTTPClient {
	return swapi.NewHTTPClient(cfg.CatalogBaseURL,
		swapi.WithHTTPClient(&http.Client{Transport: http.DefaultTransport}),
		swapi.WithMetrics(metrics),
		swapi.WithLogger(logger.Named("catalog")),
	)
}

// ProvideCharacterAPI creates the record access layer, behind a circuit
// breaker when enabled.
func ProvideCharacterAPI(client *swapi.HTTPClient, cfg *config.Config, logger *zap.Logger) ports.CharacterAPI {
	api := swapi.NewCharacterAPI(client, cfg.CatalogCollection)
	if !cfg.EnableBreaker {
		return api
	}

	breakerCfg := swapi.DefaultBreakerConfig()
	breakerCfg.MaxRequests = uint32(cfg.BreakerMaxRequests)
	breakerCfg.Interval = cfg.BreakerInterval
	breakerCfg.Timeout = cfg.BreakerTimeout
	breakerCfg.FailureThreshold = cfg.BreakerFailureThreshold
	breakerCfg.MinRequests = uint32(cfg.BreakerMinRequests)
	return swapi.NewBreakerAPI(api, breakerCfg, logger)
}

// ProvideInMemoryCache creates the response cache. The cleanup func stops
// its sweeper.
func ProvideInMemoryCache() (*cache.InMemoryCache, func()) {
	c := cache.NewInMemoryCache(cacheSweepInterval)
	return c, c.Close
}

// ProvideCache exposes the in-memory cache through the Cache port
func ProvideCache(c *cache.InMemoryCache) ports.Cache {
	return c
}

// ProvideOverlayStore creates the process-wide edit overlay
func ProvideOverlayStore(metrics *observability.Collector, logger *zap.Logger) *store.OverlayStore {
	return store.NewOverlayStore(metrics, logger)
}

// ProvideCharacterValidator creates the form validator
func ProvideCharacterValidator() *validators.CharacterValidator {
	return validators.NewCharacterValidator()
}

// ProvideCharacterForm creates the detail form service
func ProvideCharacterForm(v *validators.CharacterValidator, overlay *store.OverlayStore, logger *zap.Logger) *services.CharacterForm {
	return services.NewCharacterForm(v, overlay, logger)
}

// ProvideQueryClient creates the cached query layer
func ProvideQueryClient(
	api ports.CharacterAPI,
	c ports.Cache,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) *queries.QueryClient {
	return queries.NewQueryClient(api, c, queries.ClientConfig{
		ListStaleTime:   cfg.ListStaleTime,
		DetailStaleTime: cfg.DetailStaleTime,
		FetchTimeout:    cfg.RequestTimeout,
	}, metrics, logger)
}

// ProvideSessionConfig derives search session settings from cfg
func ProvideSessionConfig(cfg *config.Config) services.SessionConfig {
	return services.SessionConfig{
		Debounce:       cfg.SearchDebounce,
		RequestTimeout: cfg.RequestTimeout,
	}
}

// ProvideSessionManager creates the search session registry. The cleanup
// func closes every live session.
func ProvideSessionManager(
	client *queries.QueryClient,
	sessionCfg services.SessionConfig,
	cfg *config.Config,
	logger *zap.Logger,
) (*services.SessionManager, func()) {
	m := services.NewSessionManager(client, sessionCfg, cfg.SessionIdleTimeout, logger)
	return m, m.Close
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(form *services.CharacterForm, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(&zapLoggerAdapter{logger}))

	// Register SaveCharacterEditCommand handler
	saveHandler := commands_handlers.NewSaveCharacterEditHandler(form, logger)
	if err := commandBus.Register(commands.SaveCharacterEditCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			saveCmd, ok := cmd.(commands.SaveCharacterEditCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return saveHandler.Handle(ctx, saveCmd)
		},
	}); err != nil {
		return nil, err
	}

	// Register ResetCharacterEditCommand handler
	resetHandler := commands_handlers.NewResetCharacterEditHandler(form, logger)
	if err := commandBus.Register(commands.ResetCharacterEditCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			resetCmd, ok := cmd.(commands.ResetCharacterEditCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return resetHandler.Handle(ctx, resetCmd)
		},
	}); err != nil {
		return nil, err
	}

	// Register ClearCharacterEditsCommand handler
	clearHandler := commands_handlers.NewClearCharacterEditsHandler(form, logger)
	if err := commandBus.Register(commands.ClearCharacterEditsCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			clearCmd, ok := cmd.(commands.ClearCharacterEditsCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return clearHandler.Handle(ctx, clearCmd)
		},
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	client *queries.QueryClient,
	overlay *store.OverlayStore,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	var middlewares []querybus.Middleware
	if metrics != nil {
		middlewares = append(middlewares, querybus.MetricsMiddleware(metrics))
	}
	queryBus := querybus.NewQueryBus(middlewares...)

	// Register ListCharactersQuery handler
	listHandler := queries_handlers.NewListCharactersHandler(client, logger)
	if err := queryBus.Register(queries.ListCharactersQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListCharactersQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listHandler.Handle(ctx, listQuery)
		},
	}); err != nil {
		return nil, err
	}

	// Register GetCharacterQuery handler
	getHandler := queries_handlers.NewGetCharacterHandler(client, overlay, logger)
	if err := queryBus.Register(queries.GetCharacterQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetCharacterQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getHandler.Handle(ctx, getQuery)
		},
	}); err != nil {
		return nil, err
	}

	// Register ListPendingEditsQuery handler
	editsHandler := queries_handlers.NewListPendingEditsHandler(overlay)
	if err := queryBus.Register(queries.ListPendingEditsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			editsQuery, ok := query.(queries.ListPendingEditsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return editsHandler.Handle(ctx, editsQuery)
		},
	}); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler. Stack traces are only
// exposed outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	sessions *services.SessionManager,
	errHandler *errors.ErrorHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, sessions, errHandler, metrics, rest.RouterConfig{
		EnableCORS:         cfg.EnableCORS,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     cfg.RequestTimeout,
		DisableSessions:    !cfg.EnableSessions,
	}, logger)
}

// zapLoggerAdapter adapts zap.Logger to the bus.Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Debug(msg string, fields ...interface{}) {
	a.logger.Debug(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, _ := fields[i].(string)
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
	}
	return zapFields
}
