package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DraftPick struct {
	ID             uuid.UUID
	DraftID        uuid.UUID
	Round          int32
	Pick           int32
	OverallPick    int32
	TeamID         uuid.UUID
	PlayerID       uuid.NullUUID
	PickedAt       sql.NullTime
	OriginalTeamID uuid.NullUUID
	IsCompensatory bool
	Notes          string
}

type PickTrade struct {
	ID              uuid.UUID
	SessionID       uuid.UUID
	FromTeamID      uuid.UUID
	ToTeamID        uuid.UUID
	Status          string
	FromValue       float64
	ToValue         float64
	ValueDifference float64
	CreatedAt       time.Time
	ResolvedAt      sql.NullTime
}

type PickTradeDetail struct {
	ID      uuid.UUID
	TradeID uuid.UUID
	PickID  uuid.UUID
	Side    string
	Active  bool
}
