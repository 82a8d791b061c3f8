package outbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutbox struct {
	mu       sync.Mutex
	order    []uuid.UUID
	rows     map[uuid.UUID]*Event
	failures map[uuid.UUID]int
}

func newMemOutbox() *memOutbox {
	return &memOutbox{rows: map[uuid.UUID]*Event{}, failures: map[uuid.UUID]int{}}
}

func (m *memOutbox) InsertEvent(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, e.ID)
	m.rows[e.ID] = &e
	return nil
}

func (m *memOutbox) FetchUnsent(_ context.Context, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, id := range m.order {
		if e := m.rows[id]; e.SentAt == nil && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memOutbox) FetchByID(_ context.Context, id uuid.UUID) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.SentAt != nil {
		return nil, apperr.NotFoundf("unsent outbox event %s", id)
	}
	cp := *e
	return &cp, nil
}

func (m *memOutbox) MarkSent(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.rows[id]
	if e.SentAt != nil {
		return false, nil
	}
	e.SentAt = &at
	return true, nil
}

func (m *memOutbox) RecordFailure(_ context.Context, id uuid.UUID, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[id]++
	m.rows[id].LastError = cause.Error()
	return nil
}

func (m *memOutbox) sent(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].SentAt != nil
}

type fakePublisher struct {
	mu   sync.Mutex
	fail error
	got  []Event
}

func (p *fakePublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.got = append(p.got, e)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func (p *fakePublisher) setFail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

type relayFixture struct {
	repo      *memOutbox
	app       *App
	publisher *fakePublisher
	clock     *clockwork.FakeClock
	metrics   *metrics.Registry
}

func newRelayFixture() *relayFixture {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 23, 20, 0, 0, 0, time.UTC))
	repo := newMemOutbox()
	return &relayFixture{
		repo:      repo,
		app:       NewApp(repo, clock),
		publisher: &fakePublisher{},
		clock:     clock,
		metrics:   metrics.NewUnregistered(),
	}
}

func (f *relayFixture) relay(opts ...RelayOption) *Relay {
	cfg := config.Default().Outbox
	opts = append(opts, WithRelayMetrics(f.metrics))
	return NewRelay(f.repo, f.publisher, f.clock, cfg, opts...)
}

func (f *relayFixture) emit(t *testing.T, eventType events.Type) uuid.UUID {
	t.Helper()
	draftID := uuid.New()
	require.NoError(t, f.app.Emit(context.Background(), draftID, eventType, events.DraftStartedPayload{DraftID: draftID.String()}))
	return f.repo.order[len(f.repo.order)-1]
}

func TestEmit(t *testing.T) {
	f := newRelayFixture()
	draftID := uuid.New()

	err := f.app.Emit(context.Background(), draftID, events.DraftPaused, events.DraftPausedPayload{
		DraftID:  draftID.String(),
		PausedAt: f.clock.Now(),
		Reason:   "commissioner timeout",
	})
	require.NoError(t, err)

	require.Len(t, f.repo.order, 1)
	row := f.repo.rows[f.repo.order[0]]
	assert.Equal(t, draftID, row.DraftID)
	assert.Equal(t, events.DraftPaused, row.EventType)
	assert.Equal(t, f.clock.Now(), row.CreatedAt)
	assert.JSONEq(t, `{"draft_id":"`+draftID.String()+`","paused_at":"2026-04-23T20:00:00Z","reason":"commissioner timeout"}`, string(row.Payload))
	assert.Nil(t, row.SentAt)

	assert.Error(t, f.app.Emit(context.Background(), draftID, events.DraftPaused, nil))
	assert.Error(t, f.app.Emit(context.Background(), draftID, "", struct{}{}))
	assert.Len(t, f.repo.order, 1)
}

func TestProcessUnsent_PublishesInOrderAndMarksSent(t *testing.T) {
	f := newRelayFixture()
	first := f.emit(t, events.DraftStarted)
	second := f.emit(t, events.PickMade)

	n, err := f.relay().ProcessUnsent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, f.publisher.got, 2)
	assert.Equal(t, first, f.publisher.got[0].ID)
	assert.Equal(t, second, f.publisher.got[1].ID)
	assert.True(t, f.repo.sent(first))
	assert.True(t, f.repo.sent(second))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OutboxPublished.WithLabelValues("PickMade", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.OutboxPending))

	n, err = f.relay().ProcessUnsent(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, f.publisher.count())
}

func TestProcessUnsent_FailureLeavesEventUnsent(t *testing.T) {
	f := newRelayFixture()
	id := f.emit(t, events.PickMade)
	f.publisher.setFail(errors.New("nats: no responders available"))

	relay := f.relay()
	n, err := relay.ProcessUnsent(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, f.repo.sent(id))
	assert.Equal(t, 1, f.repo.failures[id])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OutboxPublished.WithLabelValues("PickMade", "failure")))

	// broker back: the next pass delivers it
	f.publisher.setFail(nil)
	n, err = relay.ProcessUnsent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.repo.sent(id))
	count, _ := relay.Stats()
	assert.Equal(t, uint64(1), count)
}

func TestHandleNotification(t *testing.T) {
	f := newRelayFixture()
	id := f.emit(t, events.TradeProposed)
	relay := f.relay()

	require.NoError(t, relay.HandleNotification(context.Background(), id.String()))
	assert.True(t, f.repo.sent(id))
	assert.Equal(t, 1, f.publisher.count())

	// already sent rows are skipped
	require.NoError(t, relay.HandleNotification(context.Background(), id.String()))
	assert.Equal(t, 1, f.publisher.count())

	assert.Error(t, relay.HandleNotification(context.Background(), "not-a-uuid"))
}

func TestRun_NotificationsAndPolling(t *testing.T) {
	f := newRelayFixture()
	notify := make(chan string, 1)
	relay := f.relay(WithNotifications(notify))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))

	id := f.emit(t, events.PickMade)
	notify <- id.String()
	require.Eventually(t, func() bool { return f.repo.sent(id) }, time.Second, 5*time.Millisecond)

	// a row inserted without a notification is picked up by the poll
	missed := f.emit(t, events.PickMade)
	f.clock.Advance(config.Default().Outbox.PollInterval)
	require.Eventually(t, func() bool { return f.repo.sent(missed) }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, 2, f.publisher.count())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakePublisher{fail: errors.New("connection refused")}
	m := metrics.NewUnregistered()
	cfg := config.NATSConfig{BreakerMaxFailures: 2, BreakerTimeout: time.Hour}
	p := NewBreakerPublisher(inner, cfg, m)

	e := Event{ID: uuid.New(), EventType: events.PickMade}
	assert.Error(t, p.Publish(context.Background(), e))
	assert.Error(t, p.Publish(context.Background(), e))
	assert.Equal(t, gobreaker.StateOpen, p.State())
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(m.OutboxBreakerState))

	inner.setFail(nil)
	err := p.Publish(context.Background(), e)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Zero(t, inner.count(), "open breaker does not reach the broker")
}

func TestNewMessage(t *testing.T) {
	e := Event{
		ID:        uuid.New(),
		DraftID:   uuid.New(),
		EventType: events.PickMade,
		Payload:   []byte(`{"overall_pick":7}`),
		CreatedAt: time.Date(2026, 4, 23, 20, 0, 0, 0, time.UTC),
	}
	msg, err := newMessage("draft.events", e)
	require.NoError(t, err)

	assert.Equal(t, "draft.events.PickMade", msg.Subject)
	assert.Equal(t, e.ID.String(), msg.Header.Get("Event-ID"))
	assert.Equal(t, e.DraftID.String(), msg.Header.Get("Draft-ID"))
	assert.JSONEq(t, `{
		"event_id": "`+e.ID.String()+`",
		"event_type": "PickMade",
		"draft_id": "`+e.DraftID.String()+`",
		"created_at": "2026-04-23T20:00:00Z",
		"payload": {"overall_pick": 7}
	}`, string(msg.Data))
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthChecker(t *testing.T) {
	f := newRelayFixture()
	relay := f.relay()

	h := NewHealthChecker(pinger{}, relay, func() bool { return true }, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy":true`)

	h = NewHealthChecker(pinger{err: errors.New("connection reset")}, relay, func() bool { return false }, nil)
	status := h.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.DatabaseConnected)
	assert.Len(t, status.Errors, 2)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
