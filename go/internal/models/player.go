package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a draft prospect
type Player struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Position        string    `json:"position"` // 'QB', 'RB', 'WR', etc.
	College         *string   `json:"college,omitempty"`
	EligibilityYear int       `json:"eligibility_year"`
	IsDraftEligible bool      `json:"is_draft_eligible"`
	CreatedAt       time.Time `json:"created_at"`
}

// FitGrade is an ordinal A-F rating of scheme fit.
type FitGrade string

const (
	FitGradeA FitGrade = "A"
	FitGradeB FitGrade = "B"
	FitGradeC FitGrade = "C"
	FitGradeD FitGrade = "D"
	FitGradeF FitGrade = "F"
)

// ScoutingReport is one team's evaluation of one player.
type ScoutingReport struct {
	ID               uuid.UUID `json:"id"`
	TeamID           uuid.UUID `json:"team_id"`
	PlayerID         uuid.UUID `json:"player_id"`
	Grade            float64   `json:"grade"` // 0.0 - 10.0
	FitGrade         *FitGrade `json:"fit_grade,omitempty"`
	InjuryConcern    bool      `json:"injury_concern"`
	CharacterConcern bool      `json:"character_concern"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Well-known measurement sources.
const (
	SourceCombine = "combine"
	SourceProDay  = "pro_day"
)

// CombineResult is a sparse set of raw measurements for a player from one source in one year.
type CombineResult struct {
	ID           uuid.UUID          `json:"id"`
	PlayerID     uuid.UUID          `json:"player_id"`
	Year         int                `json:"year"`
	Source       string             `json:"source"`
	Measurements map[string]float64 `json:"measurements"`
}

// PercentilePoint maps a raw measurement value to its percentile in the reference population.
type PercentilePoint struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

// PercentileTable is the reference distribution of one measurement for one position.
type PercentileTable struct {
	Position    string            `json:"position"`
	Measurement string            `json:"measurement"`
	Points      []PercentilePoint `json:"points"`
}

// TeamNeed ranks how badly a team needs a position. Priority 1 is the highest need.
type TeamNeed struct {
	TeamID   uuid.UUID `json:"team_id"`
	Position string    `json:"position"`
	Priority int       `json:"priority"`
}
