package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taskflow/domain"
)

type backend interface {
	FetchSettings(ctx context.Context, boardID string) (domain.Settings, error)
	SaveSettings(ctx context.Context, boardID string, settings domain.Settings) error
}

// Cache wraps a settings backend with a Redis read-through cache.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
// A nil client or zero TTL turns caching off.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchSettings(ctx context.Context, boardID string) (domain.Settings, error) {
	if settings, ok := c.loadSettingsFromCache(ctx, boardID); ok {
		return settings, nil
	}

	settings, err := c.base.FetchSettings(ctx, boardID)
	if err != nil {
		return domain.Settings{}, err
	}

	c.storeSettings(ctx, boardID, settings)
	return settings, nil
}

func (c *Cache) SaveSettings(ctx context.Context, boardID string, settings domain.Settings) error {
	if err := c.base.SaveSettings(ctx, boardID, settings); err != nil {
		return err
	}

	c.evict(ctx, boardID)
	return nil
}

func (c *Cache) loadSettingsFromCache(ctx context.Context, boardID string) (domain.Settings, bool) {
	if c.redis == nil {
		return domain.Settings{}, false
	}
	data, err := c.redis.Get(ctx, settingsCacheKey(boardID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, settingsCacheKey(boardID)).Err()
		}
		return domain.Settings{}, false
	}
	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		_ = c.redis.Del(ctx, settingsCacheKey(boardID)).Err()
		return domain.Settings{}, false
	}
	return settings, true
}

func (c *Cache) storeSettings(ctx context.Context, boardID string, settings domain.Settings) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, settingsCacheKey(boardID), data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, boardID string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, settingsCacheKey(boardID)).Result()
}

func settingsCacheKey(boardID string) string {
	return "settings:" + boardID
}
