package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "okr:sess:"

// RedisStorage implements fiber.Storage for Redis
type RedisStorage struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisStorage(address, password string, db int) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
		timeout: 3 * time.Second,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns nil, nil for missing keys as fiber.Storage requires.
func (r *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := r.context()
	defer cancel()

	val, err := r.client.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := r.context()
	defer cancel()
	return r.client.Set(ctx, storageKey(key), val, exp).Err()
}

func (r *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := r.context()
	defer cancel()
	return r.client.Del(ctx, storageKey(key)).Err()
}

// Reset removes every session key, leaving the rest of the database alone.
func (r *RedisStorage) Reset() error {
	ctx, cancel := r.context()
	defer cancel()

	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func (r *RedisStorage) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func storageKey(key string) string {
	return keyPrefix + key
}
