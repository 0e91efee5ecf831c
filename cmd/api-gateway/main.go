// Package main is the entry point of the fulfillment planning API.
//
// 12-Factor App compliance:
//   - III. Config: Configuration via environment variables
//   - VI. Processes: Plans live in Redis when configured
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run ./cmd/api-gateway
//
// Environment Variables:
//
//	FUL_ENVIRONMENT      - Deployment environment (development, staging, production)
//	FUL_SERVER_PORT      - HTTP server port (default: 8080)
//	FUL_ENGINE_POLICY    - Default selection policy (nearest, consolidating)
//	FUL_REDIS_ADDR       - Redis address for plan reports (default: in memory)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hapkiduki/fulfillment-go/internal/application/planning"
	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/config"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/logging"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/metrics"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/persistance/memory"
	redisstore "github.com/hapkiduki/fulfillment-go/internal/infrastructure/persistance/redis"
	"github.com/hapkiduki/fulfillment-go/internal/interfaces/http/handler"
	"github.com/hapkiduki/fulfillment-go/internal/interfaces/http/middleware"
	"github.com/hapkiduki/fulfillment-go/pkg/logger"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.MustLoad(os.Getenv("FUL_CONFIG_FILE"))

	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	})
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	log.Info("Starting fulfillment planning API",
		"version", version,
		"environment", cfg.App.Environment,
		"policy", cfg.Engine.Policy,
		"metric", cfg.Engine.Metric,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logAdapter := logging.NewAdapter(log)
	prom := metrics.NewPrometheus("fulfillment")

	store, checks, closeStore, err := openPlanStore(ctx, cfg, logAdapter)
	if err != nil {
		log.Fatal("Plan store unavailable", "error", err)
	}
	defer closeStore()

	factors, err := cfg.Cost.Factors()
	if err != nil {
		log.Fatal("Invalid cost factors", "error", err)
	}
	svc, err := planning.NewService(planning.Config{
		Factors: factors,
		Policy:  cfg.Engine.Policy,
		Metric:  cfg.Engine.Metric,
		Workers: cfg.Engine.Workers,
	}, store, logAdapter, prom)
	if err != nil {
		log.Fatal("Planning service misconfigured", "error", err)
	}

	rl := middleware.DefaultRateLimiterConfig()
	rl.RequestsPerSecond = cfg.Server.RateLimit
	rl.Burst = cfg.Server.RateBurst

	router := handler.NewRouter(handler.RouterConfig{
		Service:        svc,
		Logger:         logAdapter,
		Metrics:        prom,
		MetricsHandler: prom.Handler(),
		HealthChecks:   checks,
		Version:        version,
		Started:        time.Now(),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxRequestSize,
		RateLimit:      rl,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server shutdown complete")
}

// openPlanStore returns the Redis store when an address is configured and the
// in-memory store otherwise, together with the health checks it needs.
func openPlanStore(
	ctx context.Context,
	cfg *config.Config,
	log port.Logger,
) (port.PlanStore, map[string]handler.HealthCheck, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Info("Plan reports kept in memory")
		return memory.NewPlanStore(), nil, func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := redisstore.NewClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("Plan reports kept in Redis", "ttl", cfg.Redis.TTL.String())

	checks := map[string]handler.HealthCheck{
		"plan_store": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	return redisstore.NewPlanStore(rdb, cfg.Redis.TTL), checks, func() { _ = rdb.Close() }, nil
}
