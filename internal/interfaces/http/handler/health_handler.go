package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/interfaces/http/middleware"
)

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// Health serves GET /health. Every check runs with a short timeout; a
// failing check turns the response into 503.
//
// Parameters:
//   - version: application version reported to callers
//   - started: process start time, used for uptime
//   - checks: dependency checks keyed by name
//
// Returns:
//   - http.HandlerFunc: the handler
func Health(version string, started time.Time, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := dto.HealthResponse{
			Status:  "healthy",
			Version: version,
			Uptime:  time.Since(started).Round(time.Second).String(),
			Checks:  make(map[string]dto.HealthCheckResult, len(checks)),
		}

		for name, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			start := time.Now()
			err := check(ctx)
			cancel()

			result := dto.HealthCheckResult{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
			if err != nil {
				result.Status = "unhealthy"
				result.Message = err.Error()
				resp.Status = "unhealthy"
			}
			resp.Checks[name] = result
		}

		if resp.Status != "healthy" {
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, resp)
	}
}

// NotFound answers unknown routes with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, dto.NewErrorResponse[any]("NOT_FOUND", "The requested resource was not found").
		WithRequestID(middleware.GetRequestID(r.Context())))
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, dto.NewErrorResponse[any]("METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource").
		WithRequestID(middleware.GetRequestID(r.Context())))
}
