package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricScoringDuration = "recommend_scoring_duration_seconds"
	MetricItemsScored     = "recommend_items_scored_total"
	MetricColdStartItems  = "recommend_cold_start_items_total"
)

// Metrics contains Prometheus metrics for the scoring pipeline.
// All operations are thread-safe.
type Metrics struct {
	scoringDuration prometheus.Histogram
	itemsScored     prometheus.Counter
	coldStartItems  prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		scoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricScoringDuration,
			Help:    "Histogram of end-to-end ranking pass duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		itemsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricItemsScored,
			Help: "Total number of candidate items scored",
		}),
		coldStartItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricColdStartItems,
			Help: "Total number of items that received the cold-start content floor",
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.scoringDuration,
		m.itemsScored,
		m.coldStartItems,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveScoring records the duration of one full ranking pass.
func (m *Metrics) ObserveScoring(d time.Duration) {
	m.scoringDuration.Observe(d.Seconds())
}

// RecordItemsScored adds n to the scored-items counter.
func (m *Metrics) RecordItemsScored(n int) {
	m.itemsScored.Add(float64(n))
}

// RecordColdStart increments the cold-start floor counter.
func (m *Metrics) RecordColdStart() {
	m.coldStartItems.Inc()
}
