// Package ignite provides a persistent key/value data store, inspired by
// Bitcask: an append-only log-structured engine with an in-memory index,
// pluggable against a second embedded-library-backed engine. It is the
// primary entry point for embedding the store directly in a Go process,
// as opposed to talking to it over the network via internal/client.
package ignite

import (
	"context"

	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/boltengine"
	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/metrics"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// ErrInstanceClosed is returned when attempting to perform operations on a
// closed Instance.
var ErrInstanceClosed = stdErrors.New("operation failed: cannot access closed instance")

// Engine is the capability set spec.md §4.4 requires of any storage
// backend: set/get/remove plus lifecycle. internal/engine.Engine (the
// log-structured implementation) and internal/boltengine.Engine (the
// bbolt-backed implementation) both satisfy it structurally.
type Engine interface {
	Set(key, value string) error
	Get(key string) (string, bool, error)
	Remove(key string) error
	Close() error
}

// Instance is the primary entry point for interacting with the Ignite
// store. It encapsulates the selected engine and the configuration
// options for this specific database instance.
type Instance struct {
	engine  Engine
	log     *zap.SugaredLogger
	options *options.Options
}

// NewInstance creates and initializes a new Ignite instance, selecting a
// storage engine per opts.Engine (defaulting to the log-structured kvs
// engine). Metrics are collected against a private, unregistered registry;
// use NewInstanceWithMetrics to expose them on a caller-owned registry.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	return NewInstanceWithMetrics(ctx, service, metrics.Noop(), opts...)
}

// NewInstanceWithMetrics is NewInstance with an explicit Metrics collector,
// for callers (internal/server) that expose a Prometheus registry of their
// own and want the engine's operation/segment/compaction metrics to land on
// it instead of a private, unscraped one.
func NewInstanceWithMetrics(ctx context.Context, service string, m *metrics.Metrics, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	if m == nil {
		m = metrics.Noop()
	}

	eng, err := newEngine(&defaultOpts, log, m)
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, log: log, options: &defaultOpts}, nil
}

func newEngine(opts *options.Options, log *zap.SugaredLogger, m *metrics.Metrics) (Engine, error) {
	switch opts.Engine {
	case options.EngineBolt:
		return boltengine.New(boltengine.Config{DataDir: opts.DataDir, Logger: log, Metrics: m})
	default:
		return engine.New(&engine.Config{Options: opts, Logger: log, Metrics: m})
	}
}

// Set stores a key-value pair in the database. If the key already exists,
// its value is replaced. The write is durable across a clean process
// restart.
func (i *Instance) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with key, reporting false if it is
// absent.
func (i *Instance) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return i.engine.Get(key)
}

// Remove deletes key from the database, returning errors.ErrKeyNotFound if
// it was already absent.
func (i *Instance) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite instance, releasing all resources
// owned by the underlying engine.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
