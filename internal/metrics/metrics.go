// Package metrics defines the Prometheus collectors exported by cloudadvisor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cloudadvisor"

// Recommendation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	Recommendations   *prometheus.CounterVec
	RecommendationLen prometheus.Histogram
	CatalogLoadErrors prometheus.Counter
	DiagramRenders    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Recommendations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome.",
		}, []string{"outcome"}),
		RecommendationLen: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_size",
			Help:      "Number of services returned per recommendation.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
		CatalogLoadErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_load_errors_total",
			Help:      "Failed catalog loads.",
		}),
		DiagramRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagram_render_total",
			Help:      "Diagram rasterization attempts by outcome.",
		}, []string{"outcome"}),
	}
}
