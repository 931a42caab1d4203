package options

const (
	// DefaultDataDir is the default base directory where Ignite stores its
	// segment files, used if no other directory is specified.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultRotationThreshold is the default active-segment size, in
	// bytes, above which the engine rotates to a new segment (1 MiB).
	DefaultRotationThreshold uint64 = 1024 * 1024

	// DefaultCompactionThreshold is the default stale-byte count above
	// which the engine runs compaction (1 MiB).
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// DefaultEngine is the storage engine backend used when none is
	// requested.
	DefaultEngine = EngineKvs
)

// defaultOptions holds the default configuration settings for an Ignite
// instance.
var defaultOptions = Options{
	DataDir: DefaultDataDir,
	Engine:  DefaultEngine,
	SegmentOptions: &segmentOptions{
		RotationThreshold:   DefaultRotationThreshold,
		CompactionThreshold: DefaultCompactionThreshold,
	},
}

// NewDefaultOptions returns a copy of the default Options.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segOpts := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segOpts
	return opts
}
