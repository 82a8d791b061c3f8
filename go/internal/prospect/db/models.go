package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ScoutingReport struct {
	ID               uuid.UUID
	TeamID           uuid.UUID
	PlayerID         uuid.UUID
	Grade            float64
	FitGrade         sql.NullString
	InjuryConcern    bool
	CharacterConcern bool
	UpdatedAt        time.Time
}

type CombineResult struct {
	ID           uuid.UUID
	PlayerID     uuid.UUID
	Year         int32
	Source       string
	Measurements json.RawMessage
}

type PercentileTable struct {
	Position    string
	Measurement string
	Percentile  float64
	Value       float64
}

type TeamNeed struct {
	TeamID   uuid.UUID
	Position string
	Priority int32
}
