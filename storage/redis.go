package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taskflow/domain"
)

// RedisSettings keeps board settings in Redis without expiry. It is used when
// no Azure storage account is configured.
type RedisSettings struct {
	client *redis.Client
}

func NewRedisSettings(client *redis.Client) *RedisSettings {
	return &RedisSettings{client: client}
}

func (r *RedisSettings) FetchSettings(ctx context.Context, boardID string) (domain.Settings, error) {
	data, err := r.client.Get(ctx, settingsKey(boardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("fetch settings: %w", err)
	}
	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (r *RedisSettings) SaveSettings(ctx context.Context, boardID string, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, settingsKey(boardID), data, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// RedisPublisher broadcasts board events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	source  string
}

func NewRedisPublisher(client *redis.Client, channel, source string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, source: source}
}

func (p *RedisPublisher) PublishEvent(ctx context.Context, ev domain.BoardEvent) error {
	data, err := encodeEnvelope(p.source, ev)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.ID, err)
	}
	return nil
}

func settingsKey(boardID string) string {
	return "board-settings:" + boardID
}
