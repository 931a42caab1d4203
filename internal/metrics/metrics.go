// Package metrics defines the Prometheus collectors exposed by the engine
// and server, grounded on the promauto pattern used throughout the example
// corpus's write-ahead-log metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the engine and server populate.
type Metrics struct {
	OpsTotal         *prometheus.CounterVec
	OpDuration       *prometheus.HistogramVec
	SegmentCount     prometheus.Gauge
	SegmentRotations prometheus.Counter
	StaleBytes       prometheus.Gauge
	CompactionsTotal prometheus.Counter
	CompactionSecs   prometheus.Histogram
}

// New registers every collector against reg. Passing prometheus.NewRegistry()
// gives callers (notably tests) an isolated registry; passing
// prometheus.DefaultRegisterer wires the process-wide `/metrics` endpoint.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OpsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "ignite",
			Name:      "engine_ops_total",
			Help:      "Number of engine operations, labeled by operation and outcome.",
		}, []string{"op", "outcome"}),

		OpDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ignite",
			Name:      "engine_op_duration_seconds",
			Help:      "Latency of engine operations, labeled by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		SegmentCount: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "ignite",
			Name:      "segment_count",
			Help:      "Number of segment files currently on disk.",
		}),

		SegmentRotations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "ignite",
			Name:      "segment_rotations_total",
			Help:      "Number of times the active segment has rotated.",
		}),

		StaleBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "ignite",
			Name:      "stale_bytes",
			Help:      "Upper-bound estimate of reclaimable bytes across all segments.",
		}),

		CompactionsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "ignite",
			Name:      "compactions_total",
			Help:      "Number of completed compaction passes.",
		}),

		CompactionSecs: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "ignite",
			Name:      "compaction_duration_seconds",
			Help:      "Wall-clock duration of compaction passes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Noop returns a Metrics backed by a private, unregistered registry — for
// tests and for engines constructed without a caller-supplied registerer.
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}
