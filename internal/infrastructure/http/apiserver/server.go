// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/internal/infrastructure/http/handlers"
	"github.com/weeklydish/planner/internal/infrastructure/http/middleware"
	apperrors "github.com/weeklydish/planner/pkg/errors"
	"github.com/weeklydish/planner/pkg/healthcheck"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MetricsCollector is the part of the metrics collector the server mounts
type MetricsCollector interface {
	middleware.HTTPMetrics
	Handler() http.Handler
}

// Dependencies groups what the router needs. Metrics, Tracer, Limiter and
// Health are optional.
type Dependencies struct {
	Handlers *handlers.APIHandlers
	Auth     middleware.TokenValidator
	Limiter  *middleware.RateLimiter
	Metrics  MetricsCollector
	Tracer   trace.Tracer
	Health   *healthcheck.HealthCheck
}

// APIServer serves the planner JSON API
type APIServer struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	deps    Dependencies
	openAPI *OpenAPIHandler
}

// NewAPIServer creates a new API server instance
func NewAPIServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *APIServer {
	s := &APIServer{
		config:  cfg,
		logger:  log.Named("api-server"),
		deps:    deps,
		openAPI: NewOpenAPIHandler(log),
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recoverer(s.logger))
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.deps.Metrics != nil {
		r.Use(middleware.Metrics(s.deps.Metrics))
	}
	if s.deps.Tracer != nil {
		r.Use(middleware.Tracing(s.deps.Tracer))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperrors.NewNotFoundError("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperrors.NewAppError(apperrors.CodeMethodNotAllowed, "Method not allowed", r.Method))
	})

	if s.deps.Health != nil {
		path := s.config.Monitoring.HealthCheckPath
		if path == "" {
			path = "/health"
		}
		r.Get(path, s.deps.Health.Handler())
		r.Get("/live", s.deps.Health.LivenessHandler())
		r.Get("/ready", s.deps.Health.ReadinessHandler())
	}

	if s.deps.Metrics != nil && s.config.Monitoring.EnableMetrics {
		path := s.config.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, s.deps.Metrics.Handler())
	}

	r.Get("/api/v1/openapi.yaml", s.openAPI.ServeOpenAPISpec)
	r.Get("/api/v1/docs", s.openAPI.ServeSwaggerUI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Use(middleware.MaxBodySize(s.config.Server.MaxBodyBytes))
		s.setupAPIV1Routes(r)
	})

	return r
}

func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := s.deps.Handlers

	// Public catalog
	r.Group(func(r chi.Router) {
		s.limit(r)
		r.Get("/recipes", h.ListRecipes)
		r.Get("/recipes/{id}", h.GetRecipe)
	})

	// Everything else acts for the token's user
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthenticateAPI(s.deps.Auth, s.logger))
		s.limit(r)

		r.Post("/recipes", h.CreateRecipe)

		r.Post("/meal-plans/generate", h.GenerateMeals)
		r.Get("/meal-plans", h.GetPlan)
		r.Post("/meal-plans", h.SavePlan)
		r.Delete("/meal-plans", h.DeletePlanEntry)

		r.Get("/shopping-list", h.ShoppingList)
	})
}

func (s *APIServer) limit(r chi.Router) {
	if s.deps.Limiter != nil {
		r.Use(s.deps.Limiter.Middleware())
	}
}

// Start listens until Shutdown is called
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the routed handler
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
