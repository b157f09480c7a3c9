package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/idempotency"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *idempotency.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, idempotency.NewStore(client, time.Hour)
}

func TestStore_BeginCompleteReplays(t *testing.T) {
	mr, s := newStore(t)
	ctx := context.Background()

	existing, err := s.Begin(ctx, "stu-1:k1")
	assert.NoError(t, err)
	assert.Nil(t, existing)

	_, err = s.Begin(ctx, "stu-1:k1")
	assert.True(t, errors.Is(err, idempotency.ErrInProgress))

	assert.NoError(t, s.Complete(ctx, "stu-1:k1", models.Order{ID: "o1", TotalAmount: 5500}))

	existing, err = s.Begin(ctx, "stu-1:k1")
	assert.NoError(t, err)
	assert.Equal(t, "o1", existing.ID)
	assert.Equal(t, 5500, existing.TotalAmount)
	assert.Equal(t, time.Hour, mr.TTL("idem:checkout:stu-1:k1"))
}

func TestStore_AbortReleasesKey(t *testing.T) {
	_, s := newStore(t)
	ctx := context.Background()

	_, err := s.Begin(ctx, "k")
	assert.NoError(t, err)
	assert.NoError(t, s.Abort(ctx, "k"))

	existing, err := s.Begin(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, existing)
}
