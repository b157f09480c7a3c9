package sessions_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/testserver"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	args := m.Called(metricName, dimensions)
	return args.Error(0)
}

func (m *MockMetrics) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	args := m.Called(metricName, dimensions)
	return args.Error(0)
}

// redisFactory builds AppContexts whose token lives in Redis, the way the
// BFF runs in production.
func redisFactory(t *testing.T, backendURL string, rdb *redis.Client, builds *int32) sessions.Factory {
	t.Helper()
	return func(ctx context.Context, id string) (*appcontext.AppContext, error) {
		if builds != nil {
			atomic.AddInt32(builds, 1)
		}
		return appcontext.New(ctx, appcontext.Options{
			BackendURL: backendURL,
			Storage:    session.NewRedisStorage(rdb, id, time.Hour),
			Notifier:   notify.NotifierFunc(func(context.Context, notify.Notice) {}),
		})
	}
}

func setup(t *testing.T) (*testserver.Server, *redis.Client) {
	t.Helper()
	backend := testserver.New(500)
	t.Cleanup(backend.Close)
	backend.AddUser("tok-1", "stu-1")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return backend, rdb
}

func TestRegistry_CreateAndGet(t *testing.T) {
	backend, rdb := setup(t)
	reg := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	ctx := context.Background()

	id, app, err := reg.Create(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.False(t, app.LoggedIn())
	assert.NoError(t, app.Login(ctx, "tok-1"))

	got, err := reg.Get(ctx, id)
	assert.NoError(t, err)
	assert.Same(t, app, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RebuildsFromStorage(t *testing.T) {
	backend, rdb := setup(t)
	ctx := context.Background()

	first := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	id, app, err := first.Create(ctx)
	assert.NoError(t, err)
	assert.NoError(t, app.Login(ctx, "tok-1"))

	// A restarted BFF only has Redis.
	restarted := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	got, err := restarted.Get(ctx, id)
	assert.NoError(t, err)
	assert.True(t, got.LoggedIn())
	assert.Equal(t, "tok-1", got.Session.Token())
	assert.Equal(t, "stu-1", got.StudentID())
	_, loaded := got.Profile.Profile()
	assert.True(t, loaded)
	assert.Equal(t, 1, restarted.Len())
}

func TestRegistry_RebuildOutlivesCancelledCaller(t *testing.T) {
	backend, rdb := setup(t)

	first := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	id, app, err := first.Create(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, app.Login(context.Background(), "tok-1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	restarted := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	got, err := restarted.Get(ctx, id)
	assert.NoError(t, err)
	assert.True(t, got.LoggedIn())
	assert.Equal(t, "stu-1", got.StudentID())
}

func TestRegistry_UnknownOrLoggedOutIsNotFound(t *testing.T) {
	backend, rdb := setup(t)
	reg := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	ctx := context.Background()

	_, err := reg.Get(ctx, "")
	assert.ErrorIs(t, err, sessions.ErrNotFound)

	_, err = reg.Get(ctx, "never-issued")
	assert.ErrorIs(t, err, sessions.ErrNotFound)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ConcurrentRebuildRunsFactoryOnce(t *testing.T) {
	backend, rdb := setup(t)
	ctx := context.Background()

	seed := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil)
	id, app, _ := seed.Create(ctx)
	assert.NoError(t, app.Login(ctx, "tok-1"))

	var builds int32
	reg := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, &builds), time.Hour, nil)

	var wg sync.WaitGroup
	results := make([]*appcontext.AppContext, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = reg.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, reg.Len())
	assert.Positive(t, atomic.LoadInt32(&builds))
}

func TestRegistry_SweepDropsIdleSessions(t *testing.T) {
	backend, rdb := setup(t)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	reg := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), 30*time.Minute, nil, sessions.WithClock(clock))
	ctx := context.Background()

	idle, _, _ := reg.Create(ctx)
	now = now.Add(20 * time.Minute)
	active, app, _ := reg.Create(ctx)
	assert.NoError(t, app.Login(ctx, "tok-1"))

	assert.Equal(t, 0, reg.Sweep(now))

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(now))
	assert.Equal(t, 1, reg.Len())

	_, err := reg.Get(ctx, idle)
	assert.ErrorIs(t, err, sessions.ErrNotFound)
	_, err = reg.Get(ctx, active)
	assert.NoError(t, err)
}

func TestRegistry_RecordsSessionMetrics(t *testing.T) {
	backend, rdb := setup(t)
	m := new(MockMetrics)
	m.On("RecordCount", awspkg.MetricSessionsStarted, map[string]string{"Service": "bff-service"}).Return(nil).Once()

	reg := sessions.NewRegistry(redisFactory(t, backend.URL, rdb, nil), time.Hour, nil, sessions.WithMetrics(m))
	_, _, err := reg.Create(context.Background())

	assert.NoError(t, err)
	m.AssertExpectations(t)
}
