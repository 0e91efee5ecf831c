// Package logging adapts pkg/logger to the application's port.Logger.
package logging

import (
	"context"

	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/pkg/logger"
)

// Adapter adapts *logger.Logger to the port.Logger interface.
type Adapter struct {
	*logger.Logger
}

// NewAdapter wraps l.
func NewAdapter(l *logger.Logger) *Adapter {
	return &Adapter{l}
}

// Debug implements port.Logger.
func (a *Adapter) Debug(msg string, keysAndValues ...any) {
	a.Logger.Debug(msg, keysAndValues...)
}

// Info implements port.Logger.
func (a *Adapter) Info(msg string, keysAndValues ...any) {
	a.Logger.Info(msg, keysAndValues...)
}

// Warn implements port.Logger.
func (a *Adapter) Warn(msg string, keysAndValues ...any) {
	a.Logger.Warn(msg, keysAndValues...)
}

// Error implements port.Logger.
func (a *Adapter) Error(msg string, keysAndValues ...any) {
	a.Logger.Error(msg, keysAndValues...)
}

// With implements port.Logger.
func (a *Adapter) With(keysAndValues ...any) port.Logger {
	return &Adapter{a.Logger.With(keysAndValues...)}
}

// WithContext implements port.Logger.
func (a *Adapter) WithContext(ctx context.Context) port.Logger {
	return &Adapter{a.Logger.WithContext(ctx)}
}

var _ port.Logger = (*Adapter)(nil)
