package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New(reg)

	m.Recommendations.WithLabelValues(OutcomeOK).Inc()
	m.RecommendationLen.Observe(4)
	m.CatalogLoadErrors.Inc()
	m.DiagramRenders.WithLabelValues("ok").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"cloudadvisor_recommendations_total",
		"cloudadvisor_recommendation_size",
		"cloudadvisor_catalog_load_errors_total",
		"cloudadvisor_diagram_render_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoadErrors))
}

func TestNew_NilRegisterer(t *testing.T) {
	m := New(nil)
	m.Recommendations.WithLabelValues(OutcomeEmpty).Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recommendations.WithLabelValues(OutcomeEmpty)))
}
