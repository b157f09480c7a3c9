package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage scopes keys to one namespace, typically a BFF session id:
// localstorage:<namespace>:<key>.
type RedisStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStorage returns a storage whose keys expire after ttl of
// inactivity. A zero ttl keeps keys forever.
func NewRedisStorage(client *redis.Client, namespace string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, namespace: namespace, ttl: ttl}
}

func (r *RedisStorage) key(key string) string {
	return fmt.Sprintf("localstorage:%s:%s", r.namespace, key)
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if r.ttl > 0 {
		_ = r.client.Expire(ctx, r.key(key), r.ttl).Err()
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
