package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Draft struct {
	ID            uuid.UUID
	Year          int32
	Status        string
	Rounds        int32
	PicksPerRound sql.NullInt32
	StartedAt     sql.NullTime
	CompletedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
