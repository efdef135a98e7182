package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session in a Redis hash named "<prefix><sid>" and
// renews its TTL on every access.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb *redis.Client, idle time.Duration) *RedisStore {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &RedisStore{rdb: rdb, ttl: idle, prefix: "sess:"}
}

func (s *RedisStore) key(sid string) string { return s.prefix + sid }

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	k := s.key(sid)
	pipe := s.rdb.TxPipeline()
	get := pipe.HGet(ctx, k, key)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return "", false, err
	}
	v, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	k := s.key(sid)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sid, key string) error {
	k := s.key(sid)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, k, key)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.key(sid)).Err()
}
