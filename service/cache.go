package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// ICacheClient defines the contract for a cache client. The abstraction
// decouples services from a concrete Redis instance; a nil client disables
// caching entirely (e.g. in unit tests or when Redis is unreachable at boot).
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// cacheGet loads a JSON value into dest. A miss or any cache error returns
// false; the caller falls through to the database.
func cacheGet(ctx context.Context, cache ICacheClient, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	val, err := cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// cacheSet stores a JSON value with the standard TTL. Failures are ignored;
// the cache never turns a successful read into an error.
func cacheSet(ctx context.Context, cache ICacheClient, key string, value interface{}) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	cache.Set(ctx, key, data, cacheTTL)
}

func cacheDel(ctx context.Context, cache ICacheClient, keys ...string) {
	if cache == nil {
		return
	}
	cache.Del(ctx, keys...)
}
