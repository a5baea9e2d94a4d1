package store

import (
	"context"
	"errors"
	"time"

	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	redis "github.com/redis/go-redis/v9"
)

const incrementScript = `
local count = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return count
`

// RedisStore backs the quota ledger with redis. The increment is a single
// Lua script so the count and its expiry move together atomically.
type RedisStore struct {
	client *redis.Client
	incr   *redis.Script
}

func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{
		client: client,
		incr:   redis.NewScript(incrementScript),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	count, err := s.incr.Run(ctx, s.client, []string{key}, int64(ttl/time.Millisecond)).Int64()
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ quotadomain.CounterStore = (*RedisStore)(nil)
