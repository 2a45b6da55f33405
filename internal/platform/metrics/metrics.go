package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters shared by the session and sync paths.
type Metrics struct {
	registry        *prometheus.Registry
	SessionsAdded   prometheus.Counter
	Reconciliations *prometheus.CounterVec
	BackendFailures *prometheus.CounterVec
	SessionsStored  prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		SessionsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "sessions_added_total",
			Help:      "Study sessions accepted by the repository.",
		}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "reconciliations_total",
			Help:      "Reconciliation runs by outcome.",
		}, []string{"outcome"}),
		BackendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "backend_failures_total",
			Help:      "Failed backend operations by backend and operation.",
		}, []string{"backend", "op"}),
		SessionsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "studytrack",
			Name:      "sessions_stored",
			Help:      "Sessions in the last reconciled set.",
		}),
	}
	registry.MustRegister(m.SessionsAdded, m.Reconciliations, m.BackendFailures, m.SessionsStored)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so callers can run without metrics.

func (m *Metrics) SessionAdded() {
	if m == nil {
		return
	}
	m.SessionsAdded.Inc()
}

func (m *Metrics) Reconciled(outcome string, stored int) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(outcome).Inc()
	if outcome != "failed" {
		m.SessionsStored.Set(float64(stored))
	}
}

func (m *Metrics) BackendFailed(backend, op string) {
	if m == nil {
		return
	}
	m.BackendFailures.WithLabelValues(backend, op).Inc()
}
