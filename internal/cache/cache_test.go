package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/types"
)

func sampleSnapshot() *types.MarketSnapshot {
	return &types.MarketSnapshot{
		RunID:         "run-1",
		GeneratedAt:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalListings: 10,
		Frequencies:   []types.SkillFrequency{{Skill: "Python", Frequency: 6, Percentage: 60}},
		Matrix:        []types.CompetencyMatrixRow{{Skill: "Python", FrequencyMarket: 6, PercentageMarket: 60, Importance: types.ImportanceCritical}},
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, sampleSnapshot()))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis test")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	c := NewRedisCache(client, time.Minute)
	c.key = DefaultKey + ":test"
	defer client.Del(ctx, c.key)

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, sampleSnapshot()))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleSnapshot().Matrix, got.Matrix)
	assert.True(t, sampleSnapshot().GeneratedAt.Equal(got.GeneratedAt))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewRedisClient(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
