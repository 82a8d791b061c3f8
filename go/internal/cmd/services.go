package main

import (
	"database/sql"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/autopick"
	"github.com/mcdev12/warroom/go/internal/draft/draft"
	draftdb "github.com/mcdev12/warroom/go/internal/draft/draft/db"
	"github.com/mcdev12/warroom/go/internal/draft/outbox"
	outboxdb "github.com/mcdev12/warroom/go/internal/draft/outbox/db"
	"github.com/mcdev12/warroom/go/internal/draft/pick"
	pickdb "github.com/mcdev12/warroom/go/internal/draft/pick/db"
	"github.com/mcdev12/warroom/go/internal/evaluation"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/mcdev12/warroom/go/internal/player"
	playerdb "github.com/mcdev12/warroom/go/internal/player/db"
	"github.com/mcdev12/warroom/go/internal/prospect"
	prospectdb "github.com/mcdev12/warroom/go/internal/prospect/db"
	"github.com/mcdev12/warroom/go/internal/strategy"
	strategydb "github.com/mcdev12/warroom/go/internal/strategy/db"
	"github.com/mcdev12/warroom/go/internal/teams"
	teamsdb "github.com/mcdev12/warroom/go/internal/teams/db"
	"github.com/mcdev12/warroom/go/internal/trade"
	tradedb "github.com/mcdev12/warroom/go/internal/trade/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const percentileCacheTTL = 24 * time.Hour

type Services struct {
	Metrics    *metrics.Registry
	Outbox     *outbox.App
	OutboxRepo *outbox.Repository
	Teams      *teams.App
	Players    *player.App
	Strategies *strategy.App
	Evaluator  *evaluation.Evaluator
	Drafts     *draft.App
	Picks      *pick.App
	AutoPick   *autopick.Engine
	Trades     *trade.App
}

func setupServices(database *sql.DB, cfg *config.Config, cache *redis.Client) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer
	clock := clockwork.NewRealClock()
	m := metrics.New(prometheus.NewRegistry())

	// Outbox records every event the apps emit
	outboxRepo := outbox.NewRepository(outboxdb.New(database))
	outboxApp := outbox.NewApp(outboxRepo, clock)

	// Teams and players
	teamsApp := teams.NewApp(teams.NewRepository(teamsdb.New(database)))
	playerApp := player.NewApp(player.NewRepository(playerdb.New(database)))

	// Prospect data with an optional percentile cache
	prospectRepo := prospect.NewRepository(prospectdb.New(database))
	var percentiles evaluation.PercentileLookup = prospectRepo
	if cache != nil {
		percentiles = prospect.NewPercentileCache(cache, prospectRepo, percentileCacheTTL)
	}

	// Strategy and evaluation
	strategyApp := strategy.NewApp(strategy.NewRepository(strategydb.New(database)), clock, cfg.Strategy)
	scorer := evaluation.NewScorer(cfg.Evaluation)
	evaluator := evaluation.NewEvaluator(scorer, prospectRepo, prospectRepo, percentiles)

	// Draft lifecycle and pick sequencing
	draftApp := draft.NewApp(draft.NewRepository(draftdb.New(database)), outboxApp, clock)
	pickApp := pick.NewApp(
		pick.NewRepository(pickdb.New(database), database),
		draftApp,
		teamsApp,
		playerApp,
		outboxApp,
		clock,
	)

	engine := autopick.NewEngine(
		scorer,
		strategyApp,
		prospectRepo,
		percentiles,
		cfg.AutoPick,
		autopick.WithAutoPick(pickApp, draftApp, playerApp),
		autopick.WithMetrics(m),
	)

	// Trades
	tradeApp := trade.NewApp(
		trade.NewRepository(tradedb.New(database), database),
		trade.NewValueChart(cfg.Trade.ValueChart),
		cfg.Trade.FairnessThreshold,
		outboxApp,
		clock,
		m,
	)

	return &Services{
		Metrics:    m,
		Outbox:     outboxApp,
		OutboxRepo: outboxRepo,
		Teams:      teamsApp,
		Players:    playerApp,
		Strategies: strategyApp,
		Evaluator:  evaluator,
		Drafts:     draftApp,
		Picks:      pickApp,
		AutoPick:   engine,
		Trades:     tradeApp,
	}
}
