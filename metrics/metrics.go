// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	votesSubmitted       *prometheus.CounterVec
	submissionsRejected  *prometheus.CounterVec
	lifecycleTransitions *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		votesSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taste_votes_submitted_total",
				Help: "Scores and parameter scores accepted by the ledger.",
			},
			[]string{"kind", "role"},
		),
		submissionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taste_submissions_rejected_total",
				Help: "Ledger submissions rejected, by reason.",
			},
			[]string{"kind", "reason"},
		),
		lifecycleTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taste_lifecycle_transitions_total",
				Help: "Lifecycle transitions applied to nominations and groups.",
			},
			[]string{"entity", "transition"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taste_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// VoteAccepted counts n accepted submissions of the given kind ("score" or "parameter_score").
func (c *Collector) VoteAccepted(kind, role string, n int) {
	if c == nil {
		return
	}
	c.votesSubmitted.WithLabelValues(kind, role).Add(float64(n))
}

func (c *Collector) VoteRejected(kind, reason string) {
	if c == nil {
		return
	}
	c.submissionsRejected.WithLabelValues(kind, reason).Inc()
}

func (c *Collector) Transition(entity, transition string) {
	if c == nil {
		return
	}
	c.lifecycleTransitions.WithLabelValues(entity, transition).Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
