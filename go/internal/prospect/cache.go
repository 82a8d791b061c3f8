package prospect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const percentileKeyPrefix = "warroom:percentiles:"

// PercentileSource loads percentile reference tables by position.
type PercentileSource interface {
	ListPercentileTables(ctx context.Context, positions []string) (map[string]map[string]models.PercentileTable, error)
}

// PercentileCache is a read-through Redis cache in front of a PercentileSource.
// Reference tables change once a season, so entries live for the configured TTL.
type PercentileCache struct {
	client redis.Cmdable
	source PercentileSource
	ttl    time.Duration
}

func NewPercentileCache(client redis.Cmdable, source PercentileSource, ttl time.Duration) *PercentileCache {
	return &PercentileCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

// ListPercentileTables serves cached positions from Redis and loads the rest from the source.
// Redis failures degrade to the source.
func (c *PercentileCache) ListPercentileTables(ctx context.Context, positions []string) (map[string]map[string]models.PercentileTable, error) {
	out := make(map[string]map[string]models.PercentileTable, len(positions))
	var misses []string

	for _, pos := range positions {
		data, err := c.client.Get(ctx, percentileKeyPrefix+pos).Bytes()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Str("position", pos).Msg("percentile cache read failed")
			}
			misses = append(misses, pos)
			continue
		}

		var tables map[string]models.PercentileTable
		if err := json.Unmarshal(data, &tables); err != nil {
			log.Warn().Err(err).Str("position", pos).Msg("discarding corrupt percentile cache entry")
			misses = append(misses, pos)
			continue
		}
		out[pos] = tables
	}

	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := c.source.ListPercentileTables(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("failed to load percentile tables: %w", err)
	}

	for _, pos := range misses {
		tables := loaded[pos]
		if tables == nil {
			tables = map[string]models.PercentileTable{}
		}
		out[pos] = tables

		data, err := json.Marshal(tables)
		if err != nil {
			return nil, fmt.Errorf("failed to encode percentile tables for %s: %w", pos, err)
		}
		if err := c.client.Set(ctx, percentileKeyPrefix+pos, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("position", pos).Msg("percentile cache write failed")
		}
	}

	return out, nil
}
