package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis counts hits per key in a fixed window shared across processes.
type Redis struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedis(rdb *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := "ratelimit:" + key

	count, err := r.rdb.Incr(ctx, redisKey).Result()

	if err != nil {
		return Decision{}, err
	}

	// first hit opens the window
	if count == 1 {
		err = r.rdb.Expire(ctx, redisKey, r.window).Err()

		if err != nil {
			return Decision{}, err
		}
	}

	if count > int64(r.limit) {
		ttl, err := r.rdb.TTL(ctx, redisKey).Result()

		if err != nil || ttl < 0 {
			ttl = r.window
		}

		return Decision{RetryAfter: ttl}, nil
	}

	return Decision{Allowed: true}, nil
}
