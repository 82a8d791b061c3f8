package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the status of a pick trade.
type TradeStatus string

const (
	TradeStatusProposed TradeStatus = "PROPOSED"
	TradeStatusAccepted TradeStatus = "ACCEPTED"
	TradeStatusRejected TradeStatus = "REJECTED"
)

// TradeSide says which team offers a pick in a trade.
type TradeSide string

const (
	TradeSideFrom TradeSide = "FROM" // offered by the proposing team
	TradeSideTo   TradeSide = "TO"   // offered by the receiving team
)

// PickTrade is a proposed exchange of draft picks between two teams.
type PickTrade struct {
	ID              uuid.UUID         `json:"id"`
	SessionID       uuid.UUID         `json:"session_id"` // draft the trade is made in
	FromTeamID      uuid.UUID         `json:"from_team_id"`
	ToTeamID        uuid.UUID         `json:"to_team_id"`
	Status          TradeStatus       `json:"status"`
	FromValue       float64           `json:"from_value"`
	ToValue         float64           `json:"to_value"`
	ValueDifference float64           `json:"value_difference"` // from_value - to_value
	Details         []PickTradeDetail `json:"details,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
}

// PickTradeDetail links a trade to one of the picks it moves.
type PickTradeDetail struct {
	ID      uuid.UUID `json:"id"`
	TradeID uuid.UUID `json:"trade_id"`
	PickID  uuid.UUID `json:"pick_id"`
	Side    TradeSide `json:"side"`
	Active  bool      `json:"active"`
}

// PickIDs returns the ids of the picks on one side of the trade.
func (t *PickTrade) PickIDs(side TradeSide) []uuid.UUID {
	var ids []uuid.UUID
	for _, d := range t.Details {
		if d.Side == side {
			ids = append(ids, d.PickID)
		}
	}
	return ids
}

// IsParticipant reports whether the team is on either side of the trade.
func (t *PickTrade) IsParticipant(teamID uuid.UUID) bool {
	return t.FromTeamID == teamID || t.ToTeamID == teamID
}
