package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustNewMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveAssessment("anxious", "passive", false)
	m.ObserveAssessment("secure", "assertive", true)
	m.ObserveBridge(OutcomeDelivered)
	m.ObserveBridge(OutcomeDropped)
	m.ObserveBridge(OutcomeDropped)
	m.ObserveSection("profile", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.assessments.WithLabelValues("anxious", "passive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bridgeDeliveries.WithLabelValues(OutcomeDropped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dashboard.WithLabelValues("profile", "ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMustNewMetrics_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNewMetrics(reg)
	assert.Panics(t, func() { MustNewMetrics(reg) })
}

func TestNilMetrics_NoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAssessment("secure", "assertive", true)
		m.ObserveBridge(OutcomeFailed)
		m.ObserveSection("partner", "placeholder")
	})
}
