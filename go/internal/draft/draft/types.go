package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/models"
)

// CreateDraftRequest represents a request to create a new draft
type CreateDraftRequest struct {
	Year   int `json:"year"`
	Rounds int `json:"rounds"`
	// PicksPerRound is nil for realistic drafts whose order is imported.
	PicksPerRound *int `json:"picks_per_round,omitempty"`
}

// TransitionRequest moves a draft to Status if it is currently in one of From
type TransitionRequest struct {
	DraftID     uuid.UUID
	Status      models.DraftStatus
	From        []models.DraftStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
	At          time.Time
}
