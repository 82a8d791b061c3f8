package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
	"github.com/mcdev12/warroom/go/internal/trade/db"
)

const activePickConstraint = "pick_trade_details_active_pick_key"

// ErrStaleTrade means a pick in the trade was used or moved after the proposal.
var ErrStaleTrade = errors.New("trade is stale")

type Repository struct {
	queries *db.Queries
	sqlDB   *sql.DB
}

func NewRepository(queries *db.Queries, sqlDB *sql.DB) *Repository {
	return &Repository{
		queries: queries,
		sqlDB:   sqlDB,
	}
}

// Propose locks the picks, lets build validate them and produce the trade,
// then persists the trade and its details in the same transaction.
func (r *Repository) Propose(
	ctx context.Context,
	pickIDs []uuid.UUID,
	build func(locked []LockedPick) (*models.PickTrade, error),
) (*models.PickTrade, error) {
	ids := make([]string, len(pickIDs))
	for i, id := range pickIDs {
		ids[i] = id.String()
	}

	var created *models.PickTrade
	err := sqlutil.Run(ctx, r.sqlDB, r.queries.WithTx, func(q *db.Queries) error {
		rows, err := q.LockPicks(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to lock picks: %w", err)
		}
		active, err := q.ListActiveTradePicks(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to check active trades: %w", err)
		}
		inTrade := make(map[uuid.UUID]bool, len(active))
		for _, id := range active {
			inTrade[id] = true
		}

		locked := make([]LockedPick, len(rows))
		for i, row := range rows {
			locked[i] = LockedPick{DraftPick: dbPickToModel(row), InActiveTrade: inTrade[row.ID]}
		}

		t, err := build(locked)
		if err != nil {
			return err
		}

		row, err := q.CreateTrade(ctx, db.CreateTradeParams{
			ID:              t.ID,
			SessionID:       t.SessionID,
			FromTeamID:      t.FromTeamID,
			ToTeamID:        t.ToTeamID,
			Status:          string(t.Status),
			FromValue:       t.FromValue,
			ToValue:         t.ToValue,
			ValueDifference: t.ValueDifference,
			CreatedAt:       t.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		for _, d := range t.Details {
			if err := q.CreateTradeDetail(ctx, db.CreateTradeDetailParams{
				ID:      d.ID,
				TradeID: row.ID,
				PickID:  d.PickID,
				Side:    string(d.Side),
			}); err != nil {
				return fmt.Errorf("failed to create trade detail: %w", err)
			}
		}

		created = dbTradeToModel(row)
		created.Details = t.Details
		return nil
	})
	if err != nil {
		if sqlutil.IsUniqueViolation(err, activePickConstraint) {
			return nil, apperr.Validationf("a pick in this trade is already part of a proposed trade")
		}
		return nil, err
	}
	return created, nil
}

// Resolve locks a proposed trade, asks decide for its resolution, applies the
// ownership transfers and closes the trade in one transaction.
func (r *Repository) Resolve(
	ctx context.Context,
	tradeID uuid.UUID,
	at time.Time,
	decide func(t *models.PickTrade) (*Resolution, error),
) (*models.PickTrade, error) {
	var resolved *models.PickTrade
	err := sqlutil.Run(ctx, r.sqlDB, r.queries.WithTx, func(q *db.Queries) error {
		row, err := q.LockTrade(ctx, tradeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFoundf("trade %s", tradeID)
			}
			return fmt.Errorf("failed to lock trade: %w", err)
		}
		details, err := q.ListTradeDetails(ctx, tradeID)
		if err != nil {
			return fmt.Errorf("failed to get trade details: %w", err)
		}

		t := dbTradeToModel(row)
		t.Details = dbDetailsToModels(details)

		res, err := decide(t)
		if err != nil {
			return err
		}

		for _, tr := range res.Transfers {
			n, err := q.TransferPick(ctx, db.TransferPickParams{
				ID:         tr.PickID,
				TeamID:     tr.To,
				FromTeamID: tr.From,
			})
			if err != nil {
				return fmt.Errorf("failed to transfer pick %s: %w", tr.PickID, err)
			}
			if n == 0 {
				return fmt.Errorf("%w: %w", ErrStaleTrade,
					apperr.Validationf("pick %s is no longer available from team %s", tr.PickID, tr.From))
			}
		}

		if err := q.DeactivateTradeDetails(ctx, tradeID); err != nil {
			return fmt.Errorf("failed to deactivate trade details: %w", err)
		}
		updated, err := q.ResolveTrade(ctx, db.ResolveTradeParams{
			ID:         tradeID,
			Status:     string(res.Status),
			ResolvedAt: at,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve trade: %w", err)
		}

		resolved = dbTradeToModel(updated)
		resolved.Details = t.Details
		for i := range resolved.Details {
			resolved.Details[i].Active = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.PickTrade, error) {
	row, err := r.queries.GetTrade(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("trade %s", id)
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	details, err := r.queries.ListTradeDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade details: %w", err)
	}

	t := dbTradeToModel(row)
	t.Details = dbDetailsToModels(details)
	return t, nil
}

func (r *Repository) ListPendingTrades(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error) {
	rows, err := r.queries.ListPendingTradesForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trades: %w", err)
	}

	trades := make([]models.PickTrade, len(rows))
	for i, row := range rows {
		details, err := r.queries.ListTradeDetails(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get trade details: %w", err)
		}
		trades[i] = *dbTradeToModel(row)
		trades[i].Details = dbDetailsToModels(details)
	}
	return trades, nil
}

func dbTradeToModel(row db.PickTrade) *models.PickTrade {
	return &models.PickTrade{
		ID:              row.ID,
		SessionID:       row.SessionID,
		FromTeamID:      row.FromTeamID,
		ToTeamID:        row.ToTeamID,
		Status:          models.TradeStatus(row.Status),
		FromValue:       row.FromValue,
		ToValue:         row.ToValue,
		ValueDifference: row.ValueDifference,
		CreatedAt:       row.CreatedAt,
		ResolvedAt:      sqlutil.FromSqlTime(row.ResolvedAt),
	}
}

func dbDetailsToModels(rows []db.PickTradeDetail) []models.PickTradeDetail {
	details := make([]models.PickTradeDetail, len(rows))
	for i, row := range rows {
		details[i] = models.PickTradeDetail{
			ID:      row.ID,
			TradeID: row.TradeID,
			PickID:  row.PickID,
			Side:    models.TradeSide(row.Side),
			Active:  row.Active,
		}
	}
	return details
}

func dbPickToModel(row db.DraftPick) models.DraftPick {
	return models.DraftPick{
		ID:             row.ID,
		DraftID:        row.DraftID,
		Round:          int(row.Round),
		Pick:           int(row.Pick),
		OverallPick:    int(row.OverallPick),
		TeamID:         row.TeamID,
		PlayerID:       sqlutil.FromNullUUID(row.PlayerID),
		PickedAt:       sqlutil.FromSqlTime(row.PickedAt),
		OriginalTeamID: sqlutil.FromNullUUID(row.OriginalTeamID),
		IsCompensatory: row.IsCompensatory,
		Notes:          row.Notes,
	}
}
