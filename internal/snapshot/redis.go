package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/p-n-ai/competency-compass/internal/platform/cache"
)

// RedisStore keeps snapshots in Redis with a TTL, so any server replica
// can serve the download.
type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(c *cache.Cache, ttl time.Duration) (*RedisStore, error) {
	if c == nil {
		return nil, fmt.Errorf("cache is nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{cache: c, ttl: ttl}, nil
}

func (r *RedisStore) Put(ctx context.Context, s Snapshot) (string, error) {
	s.CreatedAt = time.Now()
	id := ID(s)

	data, err := encode(s)
	if err != nil {
		return "", err
	}
	if err := r.cache.Put(ctx, id, data, r.ttl); err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}
	return id, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Snapshot, error) {
	data, err := r.cache.Fetch(ctx, id)
	if errors.Is(err, cache.ErrMiss) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(data)
}

func encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// HealthCheck verifies the Redis connection is alive.
func (r *RedisStore) HealthCheck(ctx context.Context) error {
	return r.cache.HealthCheck(ctx)
}
