// Package index provides the in-memory hash table that maps keys to their
// on-disk location (spec.md §4.2). It is the only authoritative source of
// which records are live; the segment log is the authoritative source of
// values. The index also owns the stale_bytes accounting used to trigger
// compaction.
package index

import (
	"sync"
	"sync/atomic"

	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/segstore"
	"github.com/ignitedb/ignite/pkg/errors"
	"go.uber.org/zap"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// Index maps keys to their segment-store location, guarded by a RWMutex.
// The engine that owns an Index is single-threaded per spec.md §5, but the
// index stays internally safe for concurrent reads the way the teacher's
// original internal/index package already did — it costs nothing and
// matches the teacher's idiom.
type Index struct {
	log        *zap.SugaredLogger
	mu         sync.RWMutex
	entries    map[string]segstore.Location
	staleBytes uint64
	closed     atomic.Bool
}

// Config configures a new Index.
type Config struct {
	Logger *zap.SugaredLogger
}

// New creates an empty Index ready for concurrent use.
func New(cfg Config) (*Index, error) {
	if cfg.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	return &Index{
		log:     cfg.Logger,
		entries: make(map[string]segstore.Location, 2046),
	}, nil
}

// Set inserts or replaces the location for key. If a prior location
// existed, its length is added to stale_bytes (spec.md §4.2 "set(k, v)").
func (idx *Index) Set(key string, loc segstore.Location) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if prev, ok := idx.entries[key]; ok {
		idx.staleBytes += uint64(prev.Length)
	}
	idx.entries[key] = loc
}

// Get returns the location for key, if present.
func (idx *Index) Get(key string) (segstore.Location, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	loc, ok := idx.entries[key]
	return loc, ok
}

// Remove erases key's entry, if present, and accounts its length as stale.
// It reports whether the key was present, so callers can decide whether to
// append a Remove record at all (spec.md §4.3 "remove(key)": an absent key
// returns KeyNotFound without writing).
func (idx *Index) Remove(key string) (segstore.Location, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, ok := idx.entries[key]
	if !ok {
		return segstore.Location{}, false
	}

	delete(idx.entries, key)
	idx.staleBytes += uint64(prev.Length)
	return prev, true
}

// AddStale records n additional stale bytes — used for the
// freshly appended Remove record itself, which becomes stale immediately
// upon write (spec.md §4.2, and §9 open question (b): "always count the
// Remove record itself as stale").
func (idx *Index) AddStale(n uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.staleBytes += n
}

// StaleBytes returns the current upper-bound estimate of reclaimable bytes.
func (idx *Index) StaleBytes() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.staleBytes
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Range calls fn for every live (key, location) pair. Iteration order is
// unspecified, matching spec.md §4.3.1 step 3 ("iteration order
// irrelevant"). fn must not mutate the Index.
func (idx *Index) Range(fn func(key string, loc segstore.Location) bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for k, v := range idx.entries {
		if !fn(k, v) {
			return
		}
	}
}

// Reset replaces the entire entry set and zeroes stale_bytes, used after
// compaction rebuilds the index from a fresh replay (spec.md §4.3.1 step 5).
func (idx *Index) Reset(entries map[string]segstore.Location) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = entries
	idx.staleBytes = 0
}

// Close releases the index's memory. The Index must not be used afterward.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.entries)
	idx.entries = nil

	idx.log.Infow("index closed")
	return nil
}
