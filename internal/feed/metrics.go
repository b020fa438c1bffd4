package feed

import "github.com/prometheus/client_golang/prometheus"

// Metrics names as constants for consistency.
const (
	MetricPagesServed = "feed_pages_served_total"
	MetricPageEntries = "feed_page_entries"
	MetricCacheHits   = "feed_cache_hits_total"
	MetricCacheMisses = "feed_cache_misses_total"
	MetricColdStarts  = "feed_cold_start_requests_total"
)

// Metrics contains Prometheus metrics for feed assembly.
type Metrics struct {
	pagesServed *prometheus.CounterVec
	pageEntries *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	coldStarts  prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
func NewMetrics() *Metrics {
	return &Metrics{
		pagesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPagesServed,
			Help: "Total feed pages served, by page type.",
		}, []string{"page"}),
		pageEntries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricPageEntries,
			Help:    "Number of entries in served feed pages.",
			Buckets: []float64{0, 5, 10, 20, 50, 100},
		}, []string{"page"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCacheHits,
			Help: "Total feed cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCacheMisses,
			Help: "Total feed cache misses.",
		}),
		coldStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricColdStarts,
			Help: "Total feed requests for accounts without a profile.",
		}),
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

// RecordPage records one served page and its entry count.
func (m *Metrics) RecordPage(page string, entries int) {
	m.pagesServed.WithLabelValues(page).Inc()
	m.pageEntries.WithLabelValues(page).Observe(float64(entries))
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Inc()
}

// RecordColdStart increments the cold start counter.
func (m *Metrics) RecordColdStart() {
	m.coldStarts.Inc()
}

// Collectors returns all Prometheus collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.pagesServed,
		m.pageEntries,
		m.cacheHits,
		m.cacheMisses,
		m.coldStarts,
	}
}
