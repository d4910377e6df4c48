package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session fields in a single Redis hash.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore creates a store writing to the hash named key.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "ridenext:session"
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, field, value string) error {
	return s.rdb.HSet(ctx, s.key, field, value).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
