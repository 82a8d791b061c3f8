package pick

import (
	"github.com/google/uuid"
)

// MakePickRequest represents a request to assign a player to a pick
type MakePickRequest struct {
	PickID   uuid.UUID `json:"pick_id"`
	PlayerID uuid.UUID `json:"player_id"`
	// AutoPick marks selections made by the auto-pick engine in the emitted event.
	AutoPick bool `json:"auto_pick"`
}

// PickSlot is one externally supplied pick of a realistic draft order
type PickSlot struct {
	Round          int       `json:"round" yaml:"round"`
	Pick           int       `json:"pick" yaml:"pick"`
	OverallPick    int       `json:"overall_pick" yaml:"overall_pick"`
	TeamID         uuid.UUID `json:"team_id" yaml:"team_id"`
	IsCompensatory bool      `json:"is_compensatory" yaml:"is_compensatory"`
	Notes          string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// OrderSource records where a draft's pick order came from
type OrderSource string

const (
	OrderFromStandings   OrderSource = "standings"
	OrderFromTeamListing OrderSource = "team_listing"
	OrderFromImport      OrderSource = "import"
)
