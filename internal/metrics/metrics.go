package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus instruments. A nil *Metrics is
// safe everywhere and records nothing, so tests and the collector can
// skip registration.
type Metrics struct {
	QueriesTotal  prometheus.Counter
	QueryDuration prometheus.Histogram
	DroppedRows   *prometheus.CounterVec
}

// New registers the instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "hydroview_queries_total",
			Help: "Number of chart queries processed.",
		}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hydroview_query_duration_seconds",
			Help:    "End-to-end chart query duration.",
			Buckets: prometheus.DefBuckets,
		}),
		DroppedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hydroview_rows_dropped_total",
			Help: "Rows dropped during normalization, per feed.",
		}, []string{"feed"}),
	}
}

// ObserveQuery records one completed query.
func (m *Metrics) ObserveQuery(seconds float64) {
	if m == nil {
		return
	}
	m.QueriesTotal.Inc()
	m.QueryDuration.Observe(seconds)
}

// AddDropped records rows dropped for a feed.
func (m *Metrics) AddDropped(feed string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DroppedRows.WithLabelValues(feed).Add(float64(n))
}
