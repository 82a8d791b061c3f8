package trade

import (
	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/models"
)

// ProposeRequest represents a request to exchange picks between two teams
type ProposeRequest struct {
	SessionID   uuid.UUID   `json:"session_id"`
	FromTeamID  uuid.UUID   `json:"from_team_id"`
	ToTeamID    uuid.UUID   `json:"to_team_id"`
	FromPickIDs []uuid.UUID `json:"from_pick_ids"` // offered by the proposing team
	ToPickIDs   []uuid.UUID `json:"to_pick_ids"`   // requested from the receiving team
}

// LockedPick is a pick row held under lock while a proposal is validated
type LockedPick struct {
	models.DraftPick
	// InActiveTrade is true when the pick is already part of a proposed trade.
	InActiveTrade bool
}

// Transfer moves one pick from one owner to another
type Transfer struct {
	PickID uuid.UUID
	From   uuid.UUID
	To     uuid.UUID
}

// Resolution is the terminal state a proposed trade moves to
type Resolution struct {
	Status    models.TradeStatus
	Transfers []Transfer
}
