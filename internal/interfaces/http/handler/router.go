package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/interfaces/http/middleware"
)

// RouterConfig wires the API together.
type RouterConfig struct {
	Service PlanService
	Logger  port.Logger
	Metrics port.Metrics

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	// HealthChecks are run by GET /health.
	HealthChecks map[string]HealthCheck

	Version        string
	Started        time.Time
	AllowedOrigins []string
	MaxBodyBytes   int64
	RateLimit      middleware.RateLimiterConfig
}

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(cfg RouterConfig) chi.Router {
	log := cfg.Logger
	if log == nil {
		log = port.NopLogger{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = port.NopMetrics{}
	}

	r := chi.NewRouter()

	// Order matters: middleware runs in the order added.
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-API-Version"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(cfg.RateLimit))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.APIVersion(cfg.Version))

	r.Get("/health", Health(cfg.Version, cfg.Started, cfg.HealthChecks))
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))
		r.Mount("/plans", NewPlanHandler(cfg.Service, log).Routes())
	})

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
