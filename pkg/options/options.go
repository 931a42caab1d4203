// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment thresholds, and the storage engine backend.
package options

import "strings"

// EngineKind names a pluggable storage engine backend (component D/E of the
// design). The zero value is not a valid engine and callers must set one
// explicitly or via WithDefaultOptions.
type EngineKind string

const (
	// EngineKvs is the log-structured engine (internal/engine).
	EngineKvs EngineKind = "kvs"
	// EngineBolt is the embedded bbolt-backed engine (internal/boltengine).
	EngineBolt EngineKind = "bolt"
)

// segmentOptions defines configurable parameters for the segment store.
type segmentOptions struct {
	// RotationThreshold is the number of bytes the active segment may grow
	// to before the engine rotates to a new segment (spec: 1 MiB).
	RotationThreshold uint64 `json:"rotationThreshold"`

	// CompactionThreshold is the number of accumulated stale bytes that
	// triggers a compaction pass (spec: 1 MiB).
	CompactionThreshold uint64 `json:"compactionThreshold"`
}

// Options defines the configuration parameters for an Ignite database
// instance. It controls storage location, thresholds, and engine selection.
type Options struct {
	// DataDir is the directory the engine owns exclusively. Segment files
	// (and, for the kvs engine, nothing else) live directly under it.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Engine selects which storage engine backend to construct.
	//
	// Default: EngineKvs
	Engine EngineKind `json:"engine"`

	// SegmentOptions configures rotation and compaction thresholds.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.Engine = opts.Engine
		o.SegmentOptions = opts.SegmentOptions
	}
}

// WithDataDir sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithEngine selects the storage engine backend.
func WithEngine(engine EngineKind) OptionFunc {
	return func(o *Options) {
		if engine == EngineKvs || engine == EngineBolt {
			o.Engine = engine
		}
	}
}

// WithRotationThreshold sets the active-segment size, in bytes, above which
// the engine rotates to a new segment.
func WithRotationThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.SegmentOptions.RotationThreshold = size
		}
	}
}

// WithCompactionThreshold sets the stale-byte count above which the engine
// runs compaction before returning from the triggering operation.
func WithCompactionThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.SegmentOptions.CompactionThreshold = size
		}
	}
}
