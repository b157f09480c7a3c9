// Package sessions keeps one AppContext per browser session. The bearer
// token never leaves the BFF: the browser only holds the session id.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/clients"
)

var ErrNotFound = errors.New("session not found")

// Factory builds the AppContext of session id. With persistent storage the
// rebuilt context picks the token up again, which is how sessions survive a
// BFF restart.
type Factory func(ctx context.Context, id string) (*appcontext.AppContext, error)

type entry struct {
	app      *appcontext.AppContext
	lastSeen time.Time
}

type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	factory Factory
	idleTTL time.Duration
	now     func() time.Time
	log     *zap.Logger
	metrics clients.MetricsRecorder
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithMetrics(m clients.MetricsRecorder) Option {
	return func(r *Registry) { r.metrics = m }
}

func NewRegistry(factory Factory, idleTTL time.Duration, log *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		factory: factory,
		idleTTL: idleTTL,
		now:     time.Now,
		log:     logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new, logged-out session.
func (r *Registry) Create(ctx context.Context) (string, *appcontext.AppContext, error) {
	id := uuid.NewString()
	app, err := r.factory(ctx, id)
	if err != nil {
		return "", nil, err
	}

	r.mu.Lock()
	r.entries[id] = &entry{app: app, lastSeen: r.now()}
	r.mu.Unlock()

	r.count(ctx, awspkg.MetricSessionsStarted)
	return id, app, nil
}

// Get returns the session's AppContext, rebuilding it from storage when this
// process has not seen it. A rebuilt context is refreshed before use. A
// session without a token, or whose token the backend rejects, is ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (*appcontext.AppContext, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.app, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(id, func() (any, error) {
		// Shared by every waiter, so one caller's cancellation must not end it.
		ctx := context.WithoutCancel(ctx)
		app, err := r.factory(ctx, id)
		if err != nil {
			return nil, err
		}
		if !app.LoggedIn() {
			return nil, ErrNotFound
		}
		if err := app.Refresh(ctx); err != nil {
			logger.For(ctx, r.log).Warn("session restored with partial data",
				zap.String("session_id", id), zap.Error(err))
		}
		if !app.LoggedIn() {
			return nil, ErrNotFound
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if e, ok := r.entries[id]; ok {
			return e.app, nil
		}
		r.entries[id] = &entry{app: app, lastSeen: r.now()}
		logger.For(ctx, r.log).Info("session restored from storage", zap.String("session_id", id))
		return app, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*appcontext.AppContext), nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// went. Persisted tokens are left to expire in storage.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.log.Info("expired idle sessions", zap.Int("count", n))
				for i := 0; i < n; i++ {
					r.count(ctx, awspkg.MetricSessionsExpired)
				}
			}
		}
	}
}

func (r *Registry) count(ctx context.Context, metric string) {
	if r.metrics == nil {
		return
	}
	_ = r.metrics.RecordCount(context.WithoutCancel(ctx), metric, map[string]string{"Service": "bff-service"})
}
