package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DraftOutbox struct {
	ID        uuid.UUID
	DraftID   uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
	SentAt    sql.NullTime
	Attempts  int32
	LastError sql.NullString
}
