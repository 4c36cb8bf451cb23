// Package metrics exposes emission counters over a Prometheus endpoint so a
// long-running streaming generator can be watched like any other producer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the generator's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal      *prometheus.CounterVec
	CampaignEvents   *prometheus.CounterVec
	WriteErrorsTotal prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trafficforge_events_total",
			Help: "Events emitted, by traffic class.",
		}, []string{"class"}),
		CampaignEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trafficforge_campaign_events_total",
			Help: "Distillation events emitted, by campaign label.",
		}, []string{"campaign"}),
		WriteErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trafficforge_write_errors_total",
			Help: "Sink write failures.",
		}),
	}
	m.registry.MustRegister(m.EventsTotal, m.CampaignEvents, m.WriteErrorsTotal)
	return m
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP listener exposing /metrics. It blocks, so callers run
// it in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
