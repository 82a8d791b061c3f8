package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (Player, error)
	ListPlayersByEligibilityYear(ctx context.Context, eligibilityYear int32) ([]Player, error)
}

var _ Querier = (*Queries)(nil)
