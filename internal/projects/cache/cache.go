package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trackly/tracker/internal/projects/domain"
)

const projectKeyPrefix = "project:" // project:{id}

// ProjectCache is a read-through cache of single projects.
type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProjectCache(client *redis.Client, ttl time.Duration) *ProjectCache {
	return &ProjectCache{client: client, ttl: ttl}
}

func (c *ProjectCache) key(id string) string { return projectKeyPrefix + id }

// Get returns (nil, nil) on a miss.
func (c *ProjectCache) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached project: %w", err)
	}
	return &p, nil
}

func (c *ProjectCache) Set(ctx context.Context, p *domain.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := c.client.Set(ctx, c.key(p.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache project: %w", err)
	}
	return nil
}

func (c *ProjectCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate project: %w", err)
	}
	return nil
}
