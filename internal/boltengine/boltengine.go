// Package boltengine is the second ignite.Engine implementation (spec.md
// §4.4), wrapping go.etcd.io/bbolt — an embedded B+tree store — the way
// the original Rust crate's SledKvsEngine wraps sled. Its only job is to
// prove the engine abstraction isn't accidentally coupled to the
// log-structured internals, so it carries none of the segment/index/
// compaction machinery.
package boltengine

import (
	"path/filepath"
	"sync/atomic"
	"time"
	"unicode/utf8"

	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/metrics"
	"github.com/ignitedb/ignite/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

var bucketName = []byte("ignite")

// Engine stores every key/value pair in a single bbolt bucket inside one
// file, "bolt.db", under the configured data directory.
type Engine struct {
	db      *bbolt.DB
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	closed  atomic.Bool
}

// Config holds the parameters needed to construct an Engine.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
}

// New opens (creating if absent) the bbolt database file and ensures the
// single value bucket exists.
func New(cfg Config) (*Engine, error) {
	if cfg.DataDir == "" {
		return nil, errors.NewRequiredFieldError("dataDir")
	}
	if cfg.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.Noop()
	}

	path := filepath.Join(cfg.DataDir, "bolt.db")
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open bolt database").
			WithPath(path)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create bucket").WithPath(path)
	}

	cfg.Logger.Infow("bolt engine opened", "path", path)
	return &Engine{db: db, log: cfg.Logger, metrics: m}, nil
}

// Set stores value under key.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	start := time.Now()
	err := e.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	e.observe("set", start, err)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "bolt put failed")
	}
	return nil
}

// Get retrieves the value stored under key, defending against non-UTF-8
// bytes that a foreign writer (bbolt is opaque byte storage) could have put
// in the bucket — the one place this validation is reachable at all,
// mirroring the Rust SledKvsEngine's fallible String::from_utf8 on read.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	start := time.Now()
	var value []byte
	var found bool
	err := e.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			found = true
			value = append([]byte(nil), v...)
		}
		return nil
	})
	e.observe("get", start, err)
	if err != nil {
		return "", false, errors.NewStorageError(err, errors.ErrorCodeIO, "bolt get failed")
	}
	if !found {
		return "", false, nil
	}

	if !utf8.Valid(value) {
		return "", false, errors.NewUtf8Error(nil, key)
	}
	return string(value), true, nil
}

// Remove deletes key, returning KeyNotFound if it was absent — the engine
// abstraction's only invariant shared across implementations.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	start := time.Now()
	err := e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return errors.ErrKeyNotFound
		}
		return b.Delete([]byte(key))
	})
	e.observe("remove", start, err)
	return err
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

// Close releases the bbolt database file.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	e.log.Infow("closing bolt engine")
	return e.db.Close()
}
