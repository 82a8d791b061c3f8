package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type DraftStrategy struct {
	ID                  uuid.UUID
	TeamID              uuid.UUID
	DraftID             uuid.UUID
	BpaWeight           int32
	NeedWeight          int32
	PositionMultipliers pqtype.NullRawMessage
	Aggressiveness      sql.NullFloat64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
