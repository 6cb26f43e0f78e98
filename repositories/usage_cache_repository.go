package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisUsageCache struct {
	redis *redis.Client
}

func NewRedisUsageCache(redisClient *redis.Client) *RedisUsageCache {
	return &RedisUsageCache{redis: redisClient}
}

func teamUsageKey(teamID uint) string {
	return fmt.Sprintf("team:%d:usage", teamID)
}

func (r *RedisUsageCache) Get(ctx context.Context, teamID uint) (int64, bool, error) {
	val, err := r.redis.Get(ctx, teamUsageKey(teamID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	usage, convErr := strconv.ParseInt(val, 10, 64)
	if convErr != nil {
		return 0, false, nil
	}
	return usage, true, nil
}

func (r *RedisUsageCache) Set(ctx context.Context, teamID uint, usage int64, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	return r.redis.Set(ctx, teamUsageKey(teamID), usage, ttl).Err()
}

func (r *RedisUsageCache) Invalidate(ctx context.Context, teamID uint) error {
	return r.redis.Del(ctx, teamUsageKey(teamID)).Err()
}
