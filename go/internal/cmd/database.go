package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/mcdev12/warroom/go/internal/dbconfig"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func setupDatabase(ctx context.Context) (*sql.DB, dbconfig.Config, error) {
	dbCfg := dbconfig.NewConfigFromEnv()

	database, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return nil, dbCfg, fmt.Errorf("failed to create database connection: %w", err)
	}
	database.SetMaxOpenConns(dbCfg.MaxOpenConns)
	database.SetMaxIdleConns(dbCfg.MaxIdleConns)
	database.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, dbCfg, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("dsn", dbCfg.Redacted()).
		Int("max_open_conns", dbCfg.MaxOpenConns).
		Msg("Connected to database")
	return database, dbCfg, nil
}

// setupRedis returns nil when REDIS_URL is unset or unreachable; callers fall back to Postgres.
func setupRedis(ctx context.Context) *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, percentile cache disabled")
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("redis unreachable, percentile cache disabled")
		client.Close()
		return nil
	}
	log.Info().Str("addr", opts.Addr).Msg("Connected to redis")
	return client
}
