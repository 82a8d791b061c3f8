package strategy

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/strategy/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategyColumns = []string{"id", "team_id", "draft_id", "bpa_weight", "need_weight", "position_multipliers", "aggressiveness", "created_at", "updated_at"}

func TestRepository_GetStrategyDecodesOverrides(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewRepository(db.New(mockDB))

	teamID, draftID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_strategies\nWHERE team_id = $1 AND draft_id = $2")).
		WithArgs(teamID, draftID).
		WillReturnRows(sqlmock.NewRows(strategyColumns).
			AddRow(uuid.New().String(), teamID.String(), draftID.String(), 30, 70, []byte(`{"RB": 1.2}`), 0.8, now, now))

	s, err := repo.GetStrategy(context.Background(), teamID, draftID)
	require.NoError(t, err)
	assert.Equal(t, 30, s.BPAWeight)
	assert.Equal(t, 1.2, s.PositionMultipliers["RB"])
	require.NotNil(t, s.Aggressiveness)
	assert.Equal(t, 0.8, *s.Aggressiveness)
}

func TestRepository_GetStrategyNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewRepository(db.New(mockDB))

	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_strategies")).WillReturnError(sql.ErrNoRows)

	_, err = repo.GetStrategy(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_CreateIfAbsentUsesOnConflict(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewRepository(db.New(mockDB))

	s := models.DraftStrategy{ID: uuid.New(), TeamID: uuid.New(), DraftID: uuid.New(), BPAWeight: 60, NeedWeight: 40, CreatedAt: time.Now()}
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (team_id, draft_id) DO NOTHING")).
		WithArgs(s.ID, s.TeamID, s.DraftID, int32(60), int32(40), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.CreateIfAbsent(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}
