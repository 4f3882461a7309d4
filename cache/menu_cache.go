// Package cache keeps the available menu close to the handlers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"restaurant-storefront/models"

	"github.com/redis/go-redis/v9"
)

const menuKey = "menu:available"

type MenuCache interface {
	// Get returns the cached menu and whether it was present.
	Get(ctx context.Context) ([]models.MenuItem, bool)
	Set(ctx context.Context, items []models.MenuItem) error
	Invalidate(ctx context.Context) error
}

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) Get(ctx context.Context) ([]models.MenuItem, bool) {
	data, err := c.Client.Get(ctx, menuKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *RedisMenuCache) Set(ctx context.Context, items []models.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuKey, payload, c.TTL).Err()
}

func (c *RedisMenuCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, menuKey).Err()
}

// NoopMenuCache never holds anything.
type NoopMenuCache struct{}

func (NoopMenuCache) Get(ctx context.Context) ([]models.MenuItem, bool)      { return nil, false }
func (NoopMenuCache) Set(ctx context.Context, items []models.MenuItem) error { return nil }
func (NoopMenuCache) Invalidate(ctx context.Context) error                   { return nil }
