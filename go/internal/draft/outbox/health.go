package outbox

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HealthStatus is the body served on /health
type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	DatabaseConnected bool      `json:"database_connected"`
	BrokerConnected   bool      `json:"broker_connected"`
	BreakerState      string    `json:"breaker_state,omitempty"`
	EventsPublished   uint64    `json:"events_published"`
	LastPublishedAt   time.Time `json:"last_published_at,omitempty"`
	Errors            []string  `json:"errors"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthChecker struct {
	db        Pinger
	relay     *Relay
	connected func() bool
	breaker   *BreakerPublisher
}

// NewHealthChecker reports on the database and, when given, the relay and broker.
// connected and breaker may be nil when the relay is not running.
func NewHealthChecker(db Pinger, relay *Relay, connected func() bool, breaker *BreakerPublisher) *HealthChecker {
	return &HealthChecker{db: db, relay: relay, connected: connected, breaker: breaker}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Healthy: true, Errors: []string{}}

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, "database ping failed: "+err.Error())
	} else {
		status.DatabaseConnected = true
	}

	if h.connected != nil {
		status.BrokerConnected = h.connected()
		if !status.BrokerConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	if h.breaker != nil {
		state := h.breaker.State()
		status.BreakerState = state.String()
		if state == gobreaker.StateOpen {
			status.Healthy = false
			status.Errors = append(status.Errors, "publisher circuit breaker open")
		}
	}

	if h.relay != nil {
		status.EventsPublished, status.LastPublishedAt = h.relay.Stats()
	}
	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}
