package db

import (
	"database/sql"

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
