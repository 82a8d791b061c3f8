package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a club that owns draft picks
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamStanding is a team's final record for a season and the draft slot it earned.
type TeamStanding struct {
	TeamID        uuid.UUID `json:"team_id"`
	Year          int       `json:"year"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Ties          int       `json:"ties"`
	DraftPosition int       `json:"draft_position"`
}
