package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// withServices opens the database for one command and hands the wired apps to fn.
func withServices(cmd *cobra.Command, root *rootOptions, fn func(ctx context.Context, s *Services) error) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	database, _, err := setupDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	cache := setupRedis(ctx)
	if cache != nil {
		defer cache.Close()
	}
	return fn(ctx, setupServices(database, cfg, cache))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return id, nil
}

func parseIDs(name string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := parseID(name, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseMultipliers turns POS=value flag pairs into position multipliers.
func parseMultipliers(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for pos, v := range raw {
		m, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid multiplier for %s %q: %w", pos, v, err)
		}
		out[strings.ToUpper(strings.TrimSpace(pos))] = m
	}
	return out, nil
}
