package cache

import (
	"context"
	"errors"
	"fmt"
	"haul-turn-planner/internal/platform/obs"
	"haul-turn-planner/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPathCache stores solved paths in Redis with a fixed time to live.
// A zero TTL keeps entries until evicted.
type RedisPathCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisPathCache(client *redis.Client, ttl time.Duration) *RedisPathCache {
	return &RedisPathCache{Client: client, Prefix: "haul-turn-planner:", TTL: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return client, nil
}

func (r *RedisPathCache) Get(ctx context.Context, key string) (_ ports.CachedPath, _ bool, err error) {
	defer obs.Time(ctx, "path.cache.redis.Get")(&err)

	if r.Client == nil {
		return ports.CachedPath{}, false, errors.New("path cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return ports.CachedPath{}, false, errors.New("get path cache: key must not be empty")
	}

	b, err := r.Client.Get(ctx, r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.CachedPath{}, false, nil
	}
	if err != nil {
		return ports.CachedPath{}, false, fmt.Errorf("get path cache: redis get: %w", err)
	}

	entry, err := decodePath(b)
	if err != nil {
		return ports.CachedPath{}, false, fmt.Errorf("get path cache key=%q: %w", key, err)
	}
	return entry, true, nil
}

func (r *RedisPathCache) Put(ctx context.Context, key string, entry ports.CachedPath) (err error) {
	defer obs.Time(ctx, "path.cache.redis.Put")(&err)

	if r.Client == nil {
		return errors.New("path cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert path cache: key must not be empty")
	}

	payload, err := encodePath(entry)
	if err != nil {
		return fmt.Errorf("insert path cache: %w", err)
	}

	if err := r.Client.Set(ctx, r.Prefix+key, payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert path cache key=%q: redis set: %w", key, err)
	}
	return nil
}
