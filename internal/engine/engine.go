// Package engine composes the segment store, the index, and the compactor
// into the log-structured engine's get/set/remove contract (spec.md §4.3).
// It is the "D" component of the design and one of the two implementations
// of the pluggable ignite.Engine interface.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/metrics"
	"github.com/ignitedb/ignite/internal/replay"
	"github.com/ignitedb/ignite/internal/segstore"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// Engine is the log-structured key-value engine: segment store + index +
// compactor, coordinated behind a single Set/Get/Remove/Close contract.
type Engine struct {
	opts    *options.Options
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	closed  atomic.Bool

	store *segstore.Store
	idx   *index.Index
}

// Config holds the parameters needed to construct an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
}

// New opens the segment store at Options.DataDir, replays it to rebuild the
// index (spec.md §4.3 "Startup / replay"), and returns a ready-to-use
// Engine.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.NewRequiredFieldError("config")
	}
	if cfg.Options == nil {
		return nil, errors.NewRequiredFieldError("options")
	}
	if cfg.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.Noop()
	}

	cfg.Logger.Infow("opening log-structured engine", "dataDir", cfg.Options.DataDir)

	store, err := segstore.Open(segstore.Config{DataDir: cfg.Options.DataDir, Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}

	idx, err := index.New(index.Config{Logger: cfg.Logger})
	if err != nil {
		store.Close()
		return nil, err
	}

	if err := replay.Apply(store, idx); err != nil {
		store.Close()
		return nil, err
	}

	e := &Engine{opts: cfg.Options, log: cfg.Logger, metrics: m, store: store, idx: idx}
	e.reportGauges()

	cfg.Logger.Infow("engine ready", "liveKeys", idx.Len(), "staleBytes", idx.StaleBytes(), "activeSegment", store.ActiveSegmentID())
	return e, nil
}

// Set appends a Set record to the active segment, updates the index, and
// triggers rotation and/or compaction as thresholds demand (spec.md §4.3
// "set(key, value)").
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	start := time.Now()
	err := e.set(key, value)
	e.observe("set", start, err)
	return err
}

func (e *Engine) set(key, value string) error {
	data, err := codec.MarshalRecord(codec.SetRecord{Key: key, Value: value})
	if err != nil {
		return errors.NewMalformedRecordError(err, -1, -1)
	}

	before := e.store.ActiveSegmentID()
	loc, err := e.store.AppendWithRotation(data, e.opts.SegmentOptions.RotationThreshold)
	if err != nil {
		return err
	}
	if loc.SegmentID != before {
		e.metrics.SegmentRotations.Inc()
	}
	e.idx.Set(key, loc)
	e.reportGauges()

	return e.maybeCompact()
}

// Get looks up key in the index; if present, reads the located bytes and
// decodes a Set record (spec.md §4.3 "get(key)"). A decoded Remove record
// at a live index entry is a consistency-violation error.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	start := time.Now()
	value, ok, err := e.get(key)
	e.observe("get", start, err)
	return value, ok, err
}

func (e *Engine) get(key string) (string, bool, error) {
	loc, ok := e.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	data, err := e.store.Read(loc)
	if err != nil {
		if stdErrors.Is(err, segstore.ErrSegmentNotOpen) {
			return "", false, errors.NewSegmentIDError(loc.SegmentID, key)
		}
		return "", false, err
	}

	rec, err := codec.UnmarshalRecord(data)
	if err != nil {
		return "", false, errors.NewMalformedRecordError(err, int64(loc.SegmentID), loc.Offset)
	}

	set, ok := rec.(codec.SetRecord)
	if !ok {
		return "", false, errors.NewIndexCorruptionError("Get", e.idx.Len(), nil).WithKey(key)
	}

	return set.Value, true, nil
}

// Remove appends a Remove record and erases the index entry, or returns
// KeyNotFound without writing if the key was already absent (spec.md §4.3
// "remove(key)").
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	start := time.Now()
	err := e.remove(key)
	e.observe("remove", start, err)
	return err
}

func (e *Engine) remove(key string) error {
	if _, ok := e.idx.Get(key); !ok {
		return errors.ErrKeyNotFound
	}

	data, err := codec.MarshalRecord(codec.RemoveRecord{Key: key})
	if err != nil {
		return errors.NewMalformedRecordError(err, -1, -1)
	}

	// Per spec.md §9 open question (a): index mutation and log append are
	// one logical step, with the append happening first, so a failed
	// append never leaves the index missing a key the log still lacks a
	// Remove record for.
	before := e.store.ActiveSegmentID()
	loc, err := e.store.AppendWithRotation(data, e.opts.SegmentOptions.RotationThreshold)
	if err != nil {
		return err
	}
	if loc.SegmentID != before {
		e.metrics.SegmentRotations.Inc()
	}

	e.idx.Remove(key)

	// Per spec.md §9 open question (b): the freshly appended Remove record
	// is always counted as stale, regardless of whether accounting the
	// removed key's prior location already did so.
	e.idx.AddStale(uint64(loc.Length))
	e.reportGauges()

	return e.maybeCompact()
}

func (e *Engine) maybeCompact() error {
	if e.idx.StaleBytes() <= e.opts.SegmentOptions.CompactionThreshold {
		return nil
	}

	start := time.Now()
	err := compaction.Run(e.store, e.idx, e.opts.SegmentOptions.RotationThreshold, e.log)
	e.metrics.CompactionSecs.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("compaction: %w", err)
	}

	e.metrics.CompactionsTotal.Inc()
	e.reportGauges()
	return nil
}

func (e *Engine) reportGauges() {
	e.metrics.SegmentCount.Set(float64(len(e.store.SegmentIDs())))
	e.metrics.StaleBytes.Set(float64(e.idx.StaleBytes()))
}

func (e *Engine) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.IsKeyNotFound(err) {
			outcome = "not_found"
		}
	}
	e.metrics.OpsTotal.WithLabelValues(op, outcome).Inc()
	e.metrics.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Close releases every resource the engine owns: the segment store's file
// descriptors and the index's memory (spec.md §5 "resource scoping").
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.log.Infow("closing engine")
	if err := e.idx.Close(); err != nil {
		return err
	}
	return e.store.Close()
}
