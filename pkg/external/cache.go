package external

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cognisphere-server/internal/cache"
	"github.com/cognisphere-server/internal/domain"
)

// ReplyCache stores assistant replies keyed by the prompt that produced them.
type ReplyCache interface {
	GetReply(ctx context.Context, prompt string) (string, bool, error)
	SetReply(ctx context.Context, prompt, reply string, ttl time.Duration) error
}

// ReplyKey returns the cache key for prompt.
func ReplyKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("chat:reply:%x", hash[:8])
}

// CachedReply is the envelope stored in Redis
type CachedReply struct {
	Reply     string    `json:"reply"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisCache wraps a Redis client as a shared reply cache
type RedisCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache connects to config.RedisURL and pings it.
func NewRedisCache(ctx context.Context, config domain.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := config.DefaultTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{redis: client, defaultTTL: ttl}, nil
}

// GetReply returns the cached reply for prompt. Corrupt or expired entries
// are removed and reported as a miss.
func (c *RedisCache) GetReply(ctx context.Context, prompt string) (string, bool, error) {
	key := ReplyKey(prompt)

	val, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached reply: %w", err)
	}

	var cached CachedReply
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.redis.Del(ctx, key)
		return "", false, nil
	}
	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return "", false, nil
	}
	return cached.Reply, true, nil
}

// SetReply caches reply. A zero ttl uses the default.
func (c *RedisCache) SetReply(ctx context.Context, prompt, reply string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	data, err := json.Marshal(CachedReply{
		Reply:     reply,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cached reply: %w", err)
	}
	return c.redis.Set(ctx, ReplyKey(prompt), data, ttl).Err()
}

// Ping checks if Redis connection is alive
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.redis.Close()
}

// LocalCache keeps replies in process when no Redis is configured.
type LocalCache struct {
	entries *cache.MemoryCache[string]
}

// NewLocalCache creates an in-process reply cache. Entries share one TTL;
// the per-call ttl passed to SetReply is ignored.
func NewLocalCache(maxItems int, ttl time.Duration) *LocalCache {
	return &LocalCache{entries: cache.NewMemoryCache[string](maxItems, ttl)}
}

// GetReply returns the cached reply for prompt.
func (c *LocalCache) GetReply(_ context.Context, prompt string) (string, bool, error) {
	reply, ok := c.entries.Get(ReplyKey(prompt))
	return reply, ok, nil
}

// SetReply caches reply.
func (c *LocalCache) SetReply(_ context.Context, prompt, reply string, _ time.Duration) error {
	c.entries.Set(ReplyKey(prompt), reply)
	return nil
}
