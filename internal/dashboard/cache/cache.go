package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trackly/tracker/internal/dashboard/domain"
)

const statsKeyPrefix = "dashboard:" // dashboard:{user_id}

// StatsCache keeps the latest computed Stats per user.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, userID string) (*domain.Stats, error) {
	data, err := c.client.Get(ctx, statsKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached stats: %w", err)
	}

	var s domain.Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &s, nil
}

// SetMany writes several users' stats in one pipeline.
func (c *StatsCache) SetMany(ctx context.Context, stats map[string]*domain.Stats) error {
	if len(stats) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for userID, s := range stats {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		pipe.Set(ctx, statsKeyPrefix+userID, data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}
