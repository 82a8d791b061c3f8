package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus collectors of the draft engine
type Registry struct {
	// Auto-pick metrics
	AutoPickDecisions *prometheus.CounterVec
	AutoPickAttempts  prometheus.Counter
	AutoPickRetries   prometheus.Counter
	AutoPickDuration  prometheus.Histogram

	// Trade metrics
	TradeOutcomes *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished    *prometheus.CounterVec
	OutboxBatchSize    prometheus.Histogram
	OutboxPending      prometheus.Gauge
	OutboxBreakerState prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Registry {
	m := &Registry{
		AutoPickDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warroom_autopick_decisions_total",
				Help: "Auto-pick executions by result",
			},
			[]string{"result"},
		),

		AutoPickAttempts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "warroom_autopick_attempts_total",
				Help: "Make-pick attempts issued by the auto-pick engine",
			},
		),

		AutoPickRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "warroom_autopick_race_retries_total",
				Help: "Auto-pick attempts retried after the chosen player was drafted concurrently",
			},
		),

		AutoPickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "warroom_autopick_duration_seconds",
				Help:    "Wall time of one auto-pick execution",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),

		TradeOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warroom_trade_outcomes_total",
				Help: "Trade operations by outcome",
			},
			[]string{"outcome"},
		),

		OutboxPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warroom_outbox_published_total",
				Help: "Outbox events handed to the broker by event type and result",
			},
			[]string{"event_type", "result"},
		),

		OutboxBatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "warroom_outbox_batch_size",
				Help:    "Number of unsent events fetched per relay pass",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),

		OutboxPending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "warroom_outbox_pending",
				Help: "Unsent events fetched in the last relay pass",
			},
		),

		OutboxBreakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "warroom_outbox_breaker_state",
				Help: "Publisher circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),

		gatherer: reg,
	}

	reg.MustRegister(
		m.AutoPickDecisions,
		m.AutoPickAttempts,
		m.AutoPickRetries,
		m.AutoPickDuration,
		m.TradeOutcomes,
		m.OutboxPublished,
		m.OutboxBatchSize,
		m.OutboxPending,
		m.OutboxBreakerState,
	)
	return m
}

// NewUnregistered returns collectors backed by a private registry, for tests and tools.
func NewUnregistered() *Registry {
	return New(prometheus.NewRegistry())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
