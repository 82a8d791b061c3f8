package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/draft/events"
)

// Event is one row of the draft outbox
type Event struct {
	ID        uuid.UUID       `json:"id"`
	DraftID   uuid.UUID       `json:"draft_id"`
	EventType events.Type     `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
}

// Envelope is the message body published to the broker
type Envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	DraftID   string          `json:"draft_id"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

func (e Event) envelope() Envelope {
	return Envelope{
		EventID:   e.ID.String(),
		EventType: string(e.EventType),
		DraftID:   e.DraftID.String(),
		CreatedAt: e.CreatedAt,
		Payload:   e.Payload,
	}
}
