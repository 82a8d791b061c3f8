package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusPaused     DraftStatus = "PAUSED"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
)

// Draft represents one year's draft.
type Draft struct {
	ID     uuid.UUID   `json:"id"`
	Year   int         `json:"year"`
	Status DraftStatus `json:"status"`
	Rounds int         `json:"rounds"`
	// PicksPerRound is nil for realistic drafts whose round sizes are supplied externally.
	PicksPerRound *int       `json:"picks_per_round,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsRealistic reports whether the draft uses an externally supplied pick order.
func (d *Draft) IsRealistic() bool {
	return d.PicksPerRound == nil
}
