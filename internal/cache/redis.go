package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// Redis is a Store backed by a shared Redis instance, for deployments running
// more than one API replica. Values are the JSON-encoded assessment; TTL is
// enforced by Redis itself.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an already-configured client. Callers own the client's
// lifecycle and should ping it at startup.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, key Key) (engine.Assessment, error) {
	raw, err := r.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return engine.Assessment{}, ErrMiss
	}
	if err != nil {
		return engine.Assessment{}, fmt.Errorf("cache: redis get: %w", err)
	}
	var a engine.Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		// A corrupt entry is unreadable forever; drop it so the next write
		// replaces it.
		_ = r.rdb.Del(ctx, key.String()).Err()
		return engine.Assessment{}, ErrMiss
	}
	return a, nil
}

func (r *Redis) Set(ctx context.Context, key Key, a engine.Assessment, ttl time.Duration) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("cache: marshal assessment: %w", err)
	}
	if err := r.rdb.Set(ctx, key.String(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, signalID string) error {
	pattern := fmt.Sprintf("assessment:%s:v*", signalID)

	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache: redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

var _ Store = (*Redis)(nil)
