package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter is a fixed window counter shared by every server instance.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, policy Policy) (Decision, error) {
	k := redisKeyPrefix + bucketKey(policy, key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	reset := ttl.Val()
	if reset < 0 {
		// First hit of the window.
		if err := l.client.PExpire(ctx, k, policy.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set window expiry: %w", err)
		}
		reset = policy.Window
	}

	count := int(incr.Val())
	remaining := policy.Max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= policy.Max,
		Limit:     policy.Max,
		Remaining: remaining,
		Reset:     reset.Truncate(time.Millisecond),
	}, nil
}
