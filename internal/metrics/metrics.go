// Package metrics exposes Prometheus counters for description normalization.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediathek"

// Normalization holds the counters updated by the description pipeline
type Normalization struct {
	Normalized     prometheus.Counter
	Truncated      prometheus.Counter
	NoticesRemoved prometheus.Counter
	FilmsBuilt     prometheus.Counter
	registry       *prometheus.Registry
	handler        http.Handler
}

// NewNormalization creates the counters and registers them on a dedicated registry
func NewNormalization() *Normalization {
	reg := prometheus.NewRegistry()
	m := newCounters()
	reg.MustRegister(m.Normalized, m.Truncated, m.NoticesRemoved, m.FilmsBuilt)
	m.registry = reg
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

func newCounters() *Normalization {
	return &Normalization{
		Normalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptions_normalized_total",
			Help:      "Total number of descriptions passed through the normalization pipeline",
		}),
		Truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptions_truncated_total",
			Help:      "Total number of descriptions cut to the configured maximum length",
		}),
		NoticesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptions_geoblocking_removed_total",
			Help:      "Total number of descriptions that had a geo-restriction notice removed",
		}),
		FilmsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "films_built_total",
			Help:      "Total number of films assembled through the API",
		}),
	}
}

// Registry returns the registry the counters are registered on
func (m *Normalization) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (m *Normalization) Handler() http.Handler {
	return m.handler
}

// ObserveNormalized records one pipeline run
func (m *Normalization) ObserveNormalized(truncated, noticeRemoved bool) {
	if m == nil {
		return
	}
	m.Normalized.Inc()
	if truncated {
		m.Truncated.Inc()
	}
	if noticeRemoved {
		m.NoticesRemoved.Inc()
	}
}

// ObserveFilmBuilt records one film assembled from a request
func (m *Normalization) ObserveFilmBuilt() {
	if m == nil {
		return
	}
	m.FilmsBuilt.Inc()
}
