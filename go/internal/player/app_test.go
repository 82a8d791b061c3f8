package player

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/player/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	players []db.Player
}

func (f *fakeQuerier) GetPlayer(_ context.Context, id uuid.UUID) (db.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return db.Player{}, sql.ErrNoRows
}

func (f *fakeQuerier) ListPlayersByEligibilityYear(_ context.Context, year int32) ([]db.Player, error) {
	var out []db.Player
	for _, p := range f.players {
		if p.EligibilityYear == year {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestListDraftClass_FiltersIneligible(t *testing.T) {
	eligible := db.Player{ID: uuid.New(), FullName: "A", Position: "QB", EligibilityYear: 2025, IsDraftEligible: true}
	withdrawn := db.Player{ID: uuid.New(), FullName: "B", Position: "WR", EligibilityYear: 2025, IsDraftEligible: false}
	nextYear := db.Player{ID: uuid.New(), FullName: "C", Position: "RB", EligibilityYear: 2026, IsDraftEligible: true, College: sql.NullString{String: "Iowa", Valid: true}}

	app := NewApp(NewRepository(&fakeQuerier{players: []db.Player{eligible, withdrawn, nextYear}}))

	class, err := app.ListDraftClass(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, class, 1)
	assert.Equal(t, eligible.ID, class[0].ID)
}

func TestGetPlayer_NotFound(t *testing.T) {
	app := NewApp(NewRepository(&fakeQuerier{}))

	_, err := app.GetPlayer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = app.GetPlayer(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCheckEligibility(t *testing.T) {
	p := &models.Player{ID: uuid.New(), EligibilityYear: 2025, IsDraftEligible: true}
	assert.NoError(t, CheckEligibility(p, 2025))
	assert.ErrorIs(t, CheckEligibility(p, 2024), apperr.ErrValidation)

	p.IsDraftEligible = false
	assert.ErrorIs(t, CheckEligibility(p, 2025), apperr.ErrValidation)
}
