package prospect

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls  [][]string
	tables map[string]map[string]models.PercentileTable
	err    error
}

func (s *stubSource) ListPercentileTables(_ context.Context, positions []string) (map[string]map[string]models.PercentileTable, error) {
	s.calls = append(s.calls, positions)
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]map[string]models.PercentileTable{}
	for _, p := range positions {
		if t, ok := s.tables[p]; ok {
			out[p] = t
		}
	}
	return out, nil
}

func qbForty() map[string]models.PercentileTable {
	return map[string]models.PercentileTable{
		"forty_yard_dash": {
			Position:    "QB",
			Measurement: "forty_yard_dash",
			Points: []models.PercentilePoint{
				{Percentile: 10, Value: 5.05},
				{Percentile: 90, Value: 4.55},
			},
		},
	}
}

func TestPercentileCache_MissLoadsAndStores(t *testing.T) {
	client, mock := redismock.NewClientMock()
	src := &stubSource{tables: map[string]map[string]models.PercentileTable{"QB": qbForty()}}
	cache := NewPercentileCache(client, src, time.Hour)

	qbJSON, err := json.Marshal(qbForty())
	require.NoError(t, err)
	emptyJSON, err := json.Marshal(map[string]models.PercentileTable{})
	require.NoError(t, err)

	mock.ExpectGet(percentileKeyPrefix + "QB").RedisNil()
	mock.ExpectGet(percentileKeyPrefix + "K").RedisNil()
	mock.ExpectSet(percentileKeyPrefix+"QB", qbJSON, time.Hour).SetVal("OK")
	mock.ExpectSet(percentileKeyPrefix+"K", emptyJSON, time.Hour).SetVal("OK")

	got, err := cache.ListPercentileTables(context.Background(), []string{"QB", "K"})
	require.NoError(t, err)

	assert.Equal(t, qbForty(), got["QB"])
	assert.Empty(t, got["K"])
	assert.Equal(t, [][]string{{"QB", "K"}}, src.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPercentileCache_HitSkipsSource(t *testing.T) {
	client, mock := redismock.NewClientMock()
	src := &stubSource{}
	cache := NewPercentileCache(client, src, time.Hour)

	qbJSON, err := json.Marshal(qbForty())
	require.NoError(t, err)
	mock.ExpectGet(percentileKeyPrefix + "QB").SetVal(string(qbJSON))

	got, err := cache.ListPercentileTables(context.Background(), []string{"QB"})
	require.NoError(t, err)

	assert.Equal(t, qbForty(), got["QB"])
	assert.Empty(t, src.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPercentileCache_RedisDownFallsBack(t *testing.T) {
	client, mock := redismock.NewClientMock()
	src := &stubSource{tables: map[string]map[string]models.PercentileTable{"QB": qbForty()}}
	cache := NewPercentileCache(client, src, time.Hour)

	qbJSON, err := json.Marshal(qbForty())
	require.NoError(t, err)
	mock.ExpectGet(percentileKeyPrefix + "QB").SetErr(errors.New("connection refused"))
	mock.ExpectSet(percentileKeyPrefix+"QB", qbJSON, time.Hour).SetErr(errors.New("connection refused"))

	got, err := cache.ListPercentileTables(context.Background(), []string{"QB"})
	require.NoError(t, err)
	assert.Equal(t, qbForty(), got["QB"])
}

func TestPercentileCache_SourceError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	src := &stubSource{err: errors.New("db down")}
	cache := NewPercentileCache(client, src, time.Hour)

	mock.ExpectGet(percentileKeyPrefix + "QB").RedisNil()

	_, err := cache.ListPercentileTables(context.Background(), []string{"QB"})
	assert.Error(t, err)
}
