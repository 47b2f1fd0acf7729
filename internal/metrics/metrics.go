// Package metrics holds the Prometheus collectors reported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tether"

// Metrics exposes Prometheus collectors for assessment, dashboard and bridge
// activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	assessments      *prometheus.CounterVec
	fallbacks        prometheus.Counter
	bridgeDeliveries *prometheus.CounterVec
	dashboard        *prometheus.CounterVec
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Tests should pass a fresh registry. Registration errors panic, which mirrors
// the semantics of promauto helpers.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Completed assessments by resulting attachment and communication style.",
		}, []string{"attachment", "communication"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "classification_fallbacks_total",
			Help:      "Assessments that fell back to the default result after a classification error.",
		}),
		bridgeDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "deliveries_total",
			Help:      "Profile events handed to the native bridge, by outcome.",
		}, []string{"outcome"}),
		dashboard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights",
			Name:      "dashboard_sections_total",
			Help:      "Insights dashboard sections produced, by section and status.",
		}, []string{"section", "status"}),
	}
	reg.MustRegister(m.assessments, m.fallbacks, m.bridgeDeliveries, m.dashboard)
	return m
}

// ObserveAssessment records a completed assessment.
func (m *Metrics) ObserveAssessment(attachment, communication string, fallback bool) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(attachment, communication).Inc()
	if fallback {
		m.fallbacks.Inc()
	}
}

// Bridge outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeDropped   = "dropped"
	OutcomeFailed    = "failed"
)

// ObserveBridge records a bridge delivery outcome.
func (m *Metrics) ObserveBridge(outcome string) {
	if m == nil {
		return
	}
	m.bridgeDeliveries.WithLabelValues(outcome).Inc()
}

// ObserveSection records one dashboard section and the status it resolved to.
func (m *Metrics) ObserveSection(section, status string) {
	if m == nil {
		return
	}
	m.dashboard.WithLabelValues(section, status).Inc()
}
