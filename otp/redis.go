package otp

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore backs the code store with Redis so codes survive process
// restarts and are shared across instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, key, code, ttl).Err()
}

// Consume compares and deletes atomically: GetDel removes the stored
// code regardless of match, so a wrong guess burns the code too rather
// than allowing retries against a live one.
func (s *RedisStore) Consume(ctx context.Context, key, code string) (bool, error) {
	val, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == code, nil
}
