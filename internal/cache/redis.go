package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okoval/minidate/internal/config"
)

// likeCountTTL bounds staleness of the per-user liker counters.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikeCount generates the Redis key for a user's incoming-like count
func (c *RedisCache) KeyForLikeCount(userID int64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// GetLikeCount reads the cached liker count. The second return value reports
// whether the key was present.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID int64) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	return n, true, nil
}

// SetLikeCount stores the liker count with a fresh TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID int64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, likeCountTTL).Err()
}

// InvalidateLikeCount drops the cached counter so the next read recomputes it.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID int64) error {
	return c.Client.Del(ctx, c.KeyForLikeCount(userID)).Err()
}
