package rest

import (
	"net/http"
	"time"

	"holocron/application/commands/bus"
	querybus "holocron/application/queries/bus"
	"holocron/application/services"
	"holocron/interfaces/http/rest/handlers"
	"holocron/interfaces/http/rest/middleware"
	"holocron/pkg/common"
	"holocron/pkg/errors"
	"holocron/pkg/observability"
	"holocron/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the optional parts of the HTTP surface.
type RouterConfig struct {
	EnableCORS         bool
	AllowedOrigins     []string
	RateLimitPerMinute int

	// RequestTimeout bounds catalog work per API request. Zero disables it.
	RequestTimeout time.Duration

	// DisableSessions leaves out the /sessions routes.
	DisableSessions bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	sessions   *services.SessionManager
	errHandler *errors.ErrorHandler
	metrics    *observability.Collector
	config     RouterConfig
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	sessions *services.SessionManager,
	errHandler *errors.ErrorHandler,
	metrics *observability.Collector,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		sessions:   sessions,
		errHandler: errHandler,
		metrics:    metrics,
		config:     config,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(versionMiddleware)
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Location"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Route("/api/v1", func(r chi.Router) {
		if rt.config.RateLimitPerMinute > 0 {
			limiter := ratelimit.NewIPRateLimiter(
				ratelimit.NewSlidingWindowLimiter(rt.config.RateLimitPerMinute, time.Minute),
			)
			r.Use(middleware.RateLimit(limiter, 60, rt.errHandler, rt.logger))
		}
		if rt.config.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(rt.config.RequestTimeout))
		}

		r.Route("/characters", func(r chi.Router) {
			characterHandler := handlers.NewCharacterHandler(rt.commandBus, rt.queryBus, rt.errHandler, rt.logger)
			r.Get("/", characterHandler.ListCharacters)
			r.Get("/{id}", characterHandler.GetCharacter)
			r.Put("/{id}", characterHandler.SaveCharacter)
			r.Delete("/{id}/edits", characterHandler.ResetCharacter)
		})

		r.Route("/edits", func(r chi.Router) {
			editsHandler := handlers.NewEditsHandler(rt.commandBus, rt.queryBus, rt.errHandler, rt.logger)
			r.Get("/", editsHandler.ListEdits)
			r.Delete("/", editsHandler.ClearEdits)
		})

		if rt.config.DisableSessions {
			return
		}
		r.Route("/sessions", func(r chi.Router) {
			sessionHandler := handlers.NewSessionHandler(rt.sessions, rt.errHandler, rt.logger)
			r.Post("/", sessionHandler.CreateSession)
			r.Get("/{sessionID}", sessionHandler.GetSession)
			r.Put("/{sessionID}/search", sessionHandler.Search)
			r.Post("/{sessionID}/next", sessionHandler.NextPage)
			r.Post("/{sessionID}/refetch", sessionHandler.Refetch)
			r.Delete("/{sessionID}", sessionHandler.DeleteSession)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once the buses are wired. The catalog is
// remote and is not probed here.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.commandBus == nil || rt.queryBus == nil || rt.sessions == nil {
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"sessions": rt.sessions.Len(),
	})
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", common.APIVersion)
		next.ServeHTTP(w, r)
	})
}
