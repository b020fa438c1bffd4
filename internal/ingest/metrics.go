package ingest

import "github.com/prometheus/client_golang/prometheus"

// Metrics names as constants for consistency.
const (
	MetricEventsApplied = "ingest_events_applied_total"
	MetricEventsDropped = "ingest_events_dropped_total"
)

// Metrics contains Prometheus metrics for engagement event ingestion.
type Metrics struct {
	eventsApplied *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
func NewMetrics() *Metrics {
	return &Metrics{
		eventsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEventsApplied,
			Help: "Total engagement events applied to the catalog, by verb.",
		}, []string{"verb"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEventsDropped,
			Help: "Total engagement events dropped, by reason.",
		}, []string{"reason"}),
	}
}

// Register registers all metrics with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordEventApplied increments the applied counter for a verb.
func (m *Metrics) RecordEventApplied(verb string) {
	m.eventsApplied.WithLabelValues(verb).Inc()
}

// RecordEventDropped increments the dropped counter for a reason.
func (m *Metrics) RecordEventDropped(reason string) {
	m.eventsDropped.WithLabelValues(reason).Inc()
}

// Collectors returns all Prometheus collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.eventsApplied, m.eventsDropped}
}
