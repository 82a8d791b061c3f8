package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/warroom/go/internal/draft/outbox"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	addr         string
	relay        bool
	orchestrate  bool
	listenNotify bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the auto-pick orchestrator, the outbox relay and the health/metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":"+getEnv("PORT", "8080"), "listen address for /health and /metrics")
	cmd.Flags().BoolVar(&opts.relay, "relay", true, "publish outbox events to NATS JetStream")
	cmd.Flags().BoolVar(&opts.orchestrate, "orchestrate", true, "auto-pick for in-progress drafts")
	cmd.Flags().BoolVar(&opts.listenNotify, "listen", true, "wake the relay on Postgres notifications")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	database, dbCfg, err := setupDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	cache := setupRedis(ctx)
	if cache != nil {
		defer cache.Close()
	}

	services := setupServices(database, cfg, cache)
	clock := clockwork.NewRealClock()

	g, ctx := errgroup.WithContext(ctx)

	var (
		relay     *outbox.Relay
		breaker   *outbox.BreakerPublisher
		connected func() bool
	)
	if opts.relay {
		js, err := outbox.NewJetStreamPublisher(ctx, cfg.NATS)
		if err != nil {
			return err
		}
		defer js.Close()
		connected = js.Connected
		breaker = outbox.NewBreakerPublisher(js, cfg.NATS, services.Metrics)

		relayOpts := []outbox.RelayOption{outbox.WithRelayMetrics(services.Metrics)}
		if opts.listenNotify {
			listener, err := outbox.NewListener(dbCfg.DSN(), cfg.Outbox)
			if err != nil {
				return err
			}
			relayOpts = append(relayOpts, outbox.WithNotifications(listener.Notifications()))
			g.Go(func() error { return listener.Run(ctx) })
		}

		relay = outbox.NewRelay(services.OutboxRepo, breaker, clock, cfg.Outbox, relayOpts...)
		g.Go(func() error { return relay.Run(ctx) })
	}

	if opts.orchestrate {
		o := orchestrator.NewOrchestrator(services.Drafts, services.Picks, services.AutoPick, clock, cfg.Orchestrator)
		g.Go(func() error { return o.Run(ctx) })
	}

	srv := setupServer(opts.addr, services, outbox.NewHealthChecker(database, relay, connected, breaker))
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Serving health and metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupServer(addr string, services *Services, health http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/metrics", services.Metrics.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
