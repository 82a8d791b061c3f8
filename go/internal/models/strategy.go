package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStrategy weights a team's auto-pick decisions for one draft.
type DraftStrategy struct {
	ID                  uuid.UUID          `json:"id"`
	TeamID              uuid.UUID          `json:"team_id"`
	DraftID             uuid.UUID          `json:"draft_id"`
	BPAWeight           int                `json:"bpa_weight"`
	NeedWeight          int                `json:"need_weight"`
	PositionMultipliers map[string]float64 `json:"position_multipliers,omitempty"`
	Aggressiveness      *float64           `json:"aggressiveness,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}
