// Package idempotency remembers the order produced by a checkout so a
// retried request with the same Idempotency-Key gets the same order back.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

// ErrInProgress means another request with the same key has not finished.
var ErrInProgress = errors.New("checkout already in progress")

const pending = "pending"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) getIdemKey(key string) string {
	return "idem:checkout:" + key
}

// Begin claims key. It returns the stored order when key already completed,
// ErrInProgress while another holder is working, or (nil, nil) when the
// caller now owns the key and must Complete or Abort it.
func (s *Store) Begin(ctx context.Context, key string) (*models.Order, error) {
	ok, err := s.client.SetNX(ctx, s.getIdemKey(key), pending, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	val, err := s.client.Get(ctx, s.getIdemKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return s.Begin(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == pending {
		return nil, ErrInProgress
	}

	var order models.Order
	if err := json.Unmarshal([]byte(val), &order); err != nil {
		return nil, fmt.Errorf("decode idempotent order: %w", err)
	}
	return &order, nil
}

func (s *Store) Complete(ctx context.Context, key string, order models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.getIdemKey(key), data, s.ttl).Err()
}

// Abort releases key so the client may retry.
func (s *Store) Abort(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.getIdemKey(key)).Err()
}
