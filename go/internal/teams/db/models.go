package db

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID
	Name      string
	Code      string
	City      string
	CreatedAt time.Time
}

type TeamStanding struct {
	TeamID        uuid.UUID
	Year          int32
	Wins          int32
	Losses        int32
	Ties          int32
	DraftPosition int32
}
