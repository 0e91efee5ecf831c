// Package port contains the port interfaces (driven ports) for the application layer.
// Ports define the interfaces that the application layer requires from external
// services like logging, metrics and report storage.
//
// In Hexagonal Architecture (ports & adapters):
//   - Ports are interfaces that define what the application needs.
//   - Adapters are implementations of these interfaces
//   - this enables loose coupling and easy testing/swapping of implementations.
package port

import (
	"context"
	"time"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
)

// Logger defines the interface for structured logging.
// Implementation may use zap, logrus, or the standard library.
//
// Example usage:
//
//	logger.Info("Plan finished", "plan_id", planID, "total_cost", total)
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})

	// With return a logger with additional context fields.
	With(keysAndValues ...interface{}) Logger

	// WithContext return a logger with context information (e.g., request ID).
	WithContext(ctx context.Context) Logger
}

// Metrics defines the interface for recording application metrics.
// The production implementation uses Prometheus.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value float64, tags map[string]string)

	// Gauge sets a gauge metric value.
	Gauge(name string, value float64, tags map[string]string)

	// Histogram records a value in a histogram.
	Histogram(name string, value float64, tags map[string]string)

	// Timing records a timing/duration metric.
	Timing(name string, duration time.Duration, tags map[string]string)
}

// PlanStore keeps finished plan reports so they can be fetched by ID.
type PlanStore interface {
	// Save stores a report under its PlanID, replacing any previous one.
	Save(ctx context.Context, report *dto.PlanReport) error

	// Get returns the report for a plan ID.
	//
	// Returns:
	//   - *dto.PlanReport: the stored report
	//   - error: repository.ErrPlanNotFound if no report exists
	Get(ctx context.Context, planID string) (*dto.PlanReport, error)
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{}) {}
func (NopLogger) Warn(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{}) {}
func (n NopLogger) With(...interface{}) Logger { return n }
func (n NopLogger) WithContext(context.Context) Logger { return n }

// NopMetrics discards every sample.
type NopMetrics struct{}

func (NopMetrics) Counter(string, float64, map[string]string) {}
func (NopMetrics) Gauge(string, float64, map[string]string) {}
func (NopMetrics) Histogram(string, float64, map[string]string) {}
func (NopMetrics) Timing(string, time.Duration, map[string]string) {}
