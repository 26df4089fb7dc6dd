// Package metrics expone métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vibe_brain"

// Manager agrupa los colectores. Un *Manager nil es válido y no registra nada.
type Manager struct {
	registry *prometheus.Registry

	fallbacks     *prometheus.CounterVec
	rosterEntries prometheus.Gauge
	modelCalls    *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewManager registra los colectores en un registry propio.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Manager{
		registry: reg,
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Sentinel values substituted for real data, by source and kind.",
		}, []string{"source", "kind"}),
		rosterEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_entries",
			Help:      "Profiles currently tracked by the radar.",
		}),
		modelCalls: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Latency of generative model calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation", "outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry devuelve el registry subyacente.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler sirve el endpoint /metrics.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordFallback(source, kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(source, kind).Inc()
}

func (m *Manager) SetRosterEntries(n int) {
	if m == nil {
		return
	}
	m.rosterEntries.Set(float64(n))
}

func (m *Manager) ObserveModelCall(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.modelCalls.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

func (m *Manager) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
