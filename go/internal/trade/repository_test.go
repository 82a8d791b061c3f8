package trade

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/trade/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tradeColumns  = []string{"id", "session_id", "from_team_id", "to_team_id", "status", "from_value", "to_value", "value_difference", "created_at", "resolved_at"}
	detailColumns = []string{"id", "trade_id", "pick_id", "side", "active"}
	pickColumns   = []string{"id", "draft_id", "round", "pick", "overall_pick", "team_id", "player_id", "picked_at", "original_team_id", "is_compensatory", "notes"}
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(db.New(mockDB), mockDB), mock
}

func TestRepository_ResolveAcceptTransfersPicks(t *testing.T) {
	repo, mock := newMockRepository(t)

	tradeID, draftID := uuid.New(), uuid.New()
	from, to := uuid.New(), uuid.New()
	fromPick, toPick := uuid.New(), uuid.New()
	created := time.Date(2026, 4, 23, 19, 0, 0, 0, time.UTC)
	at := created.Add(10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM pick_trades\nWHERE id = $1\nFOR UPDATE")).
		WithArgs(tradeID.String()).
		WillReturnRows(sqlmock.NewRows(tradeColumns).
			AddRow(tradeID.String(), draftID.String(), from.String(), to.String(), "PROPOSED", 850.0, 800.0, 50.0, created, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pick_trade_details")).
		WithArgs(tradeID.String()).
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(uuid.NewString(), tradeID.String(), fromPick.String(), "FROM", true).
			AddRow(uuid.NewString(), tradeID.String(), toPick.String(), "TO", true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_picks")).
		WithArgs(fromPick.String(), to.String(), from.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_picks")).
		WithArgs(toPick.String(), from.String(), to.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pick_trade_details")).
		WithArgs(tradeID.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pick_trades")).
		WithArgs(tradeID.String(), "ACCEPTED", at).
		WillReturnRows(sqlmock.NewRows(tradeColumns).
			AddRow(tradeID.String(), draftID.String(), from.String(), to.String(), "ACCEPTED", 850.0, 800.0, 50.0, created, at))
	mock.ExpectCommit()

	resolved, err := repo.Resolve(context.Background(), tradeID, at, func(t *models.PickTrade) (*Resolution, error) {
		return &Resolution{Status: models.TradeStatusAccepted, Transfers: transfersFor(t)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, at, *resolved.ResolvedAt)
	require.Len(t, resolved.Details, 2)
	assert.False(t, resolved.Details[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ResolveRollsBackWhenPickMoved(t *testing.T) {
	repo, mock := newMockRepository(t)

	tradeID := uuid.New()
	from, to := uuid.New(), uuid.New()
	now := time.Date(2026, 4, 23, 19, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(tradeColumns).
			AddRow(tradeID.String(), uuid.NewString(), from.String(), to.String(), "PROPOSED", 100.0, 100.0, 0.0, now, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pick_trade_details")).
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(uuid.NewString(), tradeID.String(), uuid.NewString(), "FROM", true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_picks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Resolve(context.Background(), tradeID, now, func(t *models.PickTrade) (*Resolution, error) {
		return &Resolution{Status: models.TradeStatusAccepted, Transfers: transfersFor(t)}, nil
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.ErrorIs(t, err, ErrStaleTrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ResolveNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	called := false
	_, err := repo.Resolve(context.Background(), uuid.New(), time.Now(), func(*models.PickTrade) (*Resolution, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ProposeActivePickConflict(t *testing.T) {
	repo, mock := newMockRepository(t)

	draftID, owner := uuid.New(), uuid.New()
	pickID := uuid.New()
	now := time.Date(2026, 4, 23, 19, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_picks")).
		WillReturnRows(sqlmock.NewRows(pickColumns).
			AddRow(pickID.String(), draftID.String(), 1, 5, 5, owner.String(), nil, nil, nil, false, ""))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT pick_id FROM pick_trade_details")).
		WillReturnRows(sqlmock.NewRows([]string{"pick_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pick_trades")).
		WillReturnRows(sqlmock.NewRows(tradeColumns).
			AddRow(uuid.NewString(), draftID.String(), owner.String(), uuid.NewString(), "PROPOSED", 1700.0, 0.0, 1700.0, now, nil))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pick_trade_details")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: activePickConstraint})
	mock.ExpectRollback()

	var seen []LockedPick
	_, err := repo.Propose(context.Background(), []uuid.UUID{pickID}, func(locked []LockedPick) (*models.PickTrade, error) {
		seen = locked
		tr := &models.PickTrade{ID: uuid.New(), SessionID: draftID, FromTeamID: owner, ToTeamID: uuid.New(), Status: models.TradeStatusProposed, CreatedAt: now}
		tr.Details = []models.PickTradeDetail{{ID: uuid.New(), TradeID: tr.ID, PickID: pickID, Side: models.TradeSideFrom, Active: true}}
		return tr, nil
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.Len(t, seen, 1)
	assert.Equal(t, 5, seen[0].OverallPick)
	assert.False(t, seen[0].InActiveTrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTradeNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pick_trades")).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetTrade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
