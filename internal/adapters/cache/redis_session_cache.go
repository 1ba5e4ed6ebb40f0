package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "loan_desk:session:"

// RedisSessionCache keeps principal snapshots as JSON strings with a TTL.
type RedisSessionCache struct {
	client redis.Cmdable
}

func NewRedisSessionCache(client redis.Cmdable) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

var _ portsrepo.SessionCache = (*RedisSessionCache)(nil)

func (c *RedisSessionCache) Get(ctx context.Context, key string) (*domain.SessionRecord, error) {
	raw, err := c.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreUnavailableError("failed to read session cache", err)
	}
	var record domain.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode cached session %s: %w", key, err)
	}
	return &record, nil
}

func (c *RedisSessionCache) Set(ctx context.Context, key string, record domain.SessionRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", key, err)
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+key, raw, ttl).Err(); err != nil {
		return apperrors.NewStoreUnavailableError("failed to write session cache", err)
	}
	return nil
}

func (c *RedisSessionCache) Remove(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return apperrors.NewStoreUnavailableError("failed to evict session cache", err)
	}
	return nil
}
