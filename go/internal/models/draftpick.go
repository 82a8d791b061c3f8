package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftPick represents a single pick in a draft.
type DraftPick struct {
	ID             uuid.UUID  `json:"id"`
	DraftID        uuid.UUID  `json:"draft_id"`
	Round          int        `json:"round"`
	Pick           int        `json:"pick"`         // pick number in the round
	OverallPick    int        `json:"overall_pick"` // pick number overall
	TeamID         uuid.UUID  `json:"team_id"`      // current owner
	PlayerID       *uuid.UUID `json:"player_id,omitempty"` // nil until picked
	PickedAt       *time.Time `json:"picked_at,omitempty"`
	OriginalTeamID *uuid.UUID `json:"original_team_id,omitempty"` // set on first trade
	IsCompensatory bool       `json:"is_compensatory"`
	Notes          string     `json:"notes,omitempty"`
}

// IsMade reports whether a player has been assigned to the pick.
func (p *DraftPick) IsMade() bool {
	return p.PlayerID != nil
}
