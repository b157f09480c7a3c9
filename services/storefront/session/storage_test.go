package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func exerciseStorage(t *testing.T, s session.Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Set(ctx, session.TokenKey, "tok-1"))
	v, ok, err := s.Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	assert.NoError(t, s.Remove(ctx, session.TokenKey))
	_, ok, err = s.Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Remove(ctx, session.TokenKey))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, session.NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	exerciseStorage(t, session.NewFileStorage(path))
}

func TestFileStorage_PersistsAcrossInstancesWithPrivateMode(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	assert.NoError(t, session.NewFileStorage(path).Set(ctx, session.TokenKey, "abc"))
	assert.NoError(t, session.NewFileStorage(path).Set(ctx, "theme", "dark"))

	v, ok, err := session.NewFileStorage(path).Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := session.NewFileStorage(path).Get(context.Background(), session.TokenKey)
	assert.Error(t, err)
}

func TestRedisStorage(t *testing.T) {
	_, client := newRedis(t)
	exerciseStorage(t, session.NewRedisStorage(client, "sess-1", time.Hour))
}

func TestRedisStorage_NamespacedKeysWithTTL(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := session.NewRedisStorage(client, "a", time.Minute)
	b := session.NewRedisStorage(client, "b", time.Minute)
	assert.NoError(t, a.Set(ctx, session.TokenKey, "token-a"))

	_, ok, err := b.Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("localstorage:a:token"))
	assert.Equal(t, time.Minute, mr.TTL("localstorage:a:token"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = a.Get(ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.False(t, ok)
}
