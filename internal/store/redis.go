package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/i474232898/hourly-weather/internal/weather"
)

const keyPrefix = "weather:snapshot:"

// RedisStore keeps the latest snapshot per location in Redis, expiring after ttl.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A ttl <= 0 keeps snapshots until replaced.
func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redisv9.Client, error) {
	client := redisv9.NewClient(&redisv9.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func cacheKey(loc weather.Location) string {
	return keyPrefix + loc.Key()
}

// SaveSnapshot stores the snapshot as JSON under the location key.
func (s *RedisStore) SaveSnapshot(ctx context.Context, snapshot weather.Snapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.client.Set(ctx, cacheKey(snapshot.Location), b, s.ttl).Err()
}

// GetLatest reads the cached snapshot for loc.
func (s *RedisStore) GetLatest(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	val, err := s.client.Get(ctx, cacheKey(loc)).Bytes()
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return weather.Snapshot{}, ErrNotFound
		}
		return weather.Snapshot{}, err
	}

	var snap weather.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

var _ weather.Store = (*RedisStore)(nil)
