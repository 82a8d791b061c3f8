package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an event published on draft.events.<type>.
type Type string

const (
	PicksInitialized Type = "PicksInitialized"
	PickMade         Type = "PickMade"
	DraftStarted     Type = "DraftStarted"
	DraftPaused      Type = "DraftPaused"
	DraftResumed     Type = "DraftResumed"
	DraftCompleted   Type = "DraftCompleted"
	TradeProposed    Type = "TradeProposed"
	TradeAccepted    Type = "TradeAccepted"
	TradeRejected    Type = "TradeRejected"
)

// Emitter records an event for delivery after the state change it describes has committed.
type Emitter interface {
	Emit(ctx context.Context, draftID uuid.UUID, eventType Type, payload any) error
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, uuid.UUID, Type, any) error { return nil }

// PicksInitializedPayload is the payload for a PicksInitialized event
type PicksInitializedPayload struct {
	DraftID    string    `json:"draft_id"`
	TotalPicks int       `json:"total_picks"`
	Rounds     int       `json:"rounds"`
	OrderFrom  string    `json:"order_from"` // "standings", "team_listing" or "import"
	CreatedAt  time.Time `json:"created_at"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID      string    `json:"pick_id"`
	DraftID     string    `json:"draft_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Position    string    `json:"position"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	AutoPick    bool      `json:"auto_pick"`
	MadeAt      time.Time `json:"made_at"`
}

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	Year        int       `json:"year"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration,omitempty"`
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	DraftID  string    `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason,omitempty"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	DraftID   string    `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// TradePayload is the payload for TradeProposed, TradeAccepted and TradeRejected events
type TradePayload struct {
	TradeID         string    `json:"trade_id"`
	DraftID         string    `json:"draft_id"`
	FromTeamID      string    `json:"from_team_id"`
	ToTeamID        string    `json:"to_team_id"`
	FromPickIDs     []string  `json:"from_pick_ids"`
	ToPickIDs       []string  `json:"to_pick_ids"`
	FromValue       float64   `json:"from_value"`
	ToValue         float64   `json:"to_value"`
	ValueDifference float64   `json:"value_difference"`
	Status          string    `json:"status"`
	ActingTeamID    string    `json:"acting_team_id,omitempty"`
	At              time.Time `json:"at"`
}
