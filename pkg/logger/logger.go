// Package logger builds the zap.SugaredLogger instances threaded through
// every Ignite subsystem, so that storage, index, engine, and server
// components all emit structured, leveled logs under a common "service"
// field.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production-configured zap.SugaredLogger tagged with the
// given service name. Callers that want a quieter or differently-shaped
// logger (tests, CLIs) should use NewDevelopment or NewNop instead.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails if the default config can't build a
		// core (e.g. an unwritable sink); fall back to a no-op logger
		// rather than panic during what is usually process startup.
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

// NewDevelopment builds a human-readable, colorized logger suitable for
// local development and CLI binaries.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything, for use in tests that
// don't want to assert on or print log output.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
