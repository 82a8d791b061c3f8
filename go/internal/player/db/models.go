package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID              uuid.UUID
	FullName        string
	Position        string
	College         sql.NullString
	EligibilityYear int32
	IsDraftEligible bool
	CreatedAt       time.Time
}
