// Package stores holds one cached, server-authoritative copy per storefront
// resource. Every mutation round-trips to the backend and replaces the cache
// with what the backend returned.
package stores

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/clients"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
)

// Session is cleared whenever the backend answers 401.
type Session interface {
	Clear(ctx context.Context) error
}

type Deps struct {
	Client   clients.Doer
	Session  Session
	Notifier notify.Notifier
	Logger   *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.NotifierFunc(func(context.Context, notify.Notice) {})
	}
	d.Logger = logger.OrNop(d.Logger)
	return d
}

// resource is the cache shared by every store. Each request takes the next
// id from issued; a response is applied only while its id is still the
// latest issued, so the last request sent wins rather than the last answered.
type resource[T any] struct {
	name  string
	deps  Deps
	empty func() T
	clone func(T) T

	issued   atomic.Uint64
	inFlight atomic.Int64

	mu    sync.RWMutex
	value T
}

func newResource[T any](name string, deps Deps, empty func() T, clone func(T) T) *resource[T] {
	return &resource[T]{
		name:  name,
		deps:  deps.withDefaults(),
		empty: empty,
		clone: clone,
		value: empty(),
	}
}

func (r *resource[T]) current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clone(r.value)
}

func (r *resource[T]) begin() uint64 {
	r.inFlight.Add(1)
	return r.issued.Add(1)
}

// track marks a request that never applies a response, such as a write
// followed by a separate fetch. It leaves the sequence alone so reads
// already in flight still land.
func (r *resource[T]) track() {
	r.inFlight.Add(1)
}

func (r *resource[T]) end() {
	r.inFlight.Add(-1)
}

func (r *resource[T]) loading() bool {
	return r.inFlight.Load() > 0
}

// applyIf stores v when id is still the latest request.
func (r *resource[T]) applyIf(ctx context.Context, id uint64, v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if latest := r.issued.Load(); latest != id {
		logger.For(ctx, r.deps.Logger).Debug("discarding stale response",
			zap.String("store", r.name), zap.Uint64("request", id), zap.Uint64("latest", latest))
		return false
	}
	r.value = v
	return true
}

// reset drops the cache and invalidates every request still in flight.
func (r *resource[T]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued.Add(1)
	r.value = r.empty()
}

func (r *resource[T]) notify(ctx context.Context, n notify.Notice) {
	r.deps.Notifier.Notify(ctx, n)
}

// fail surfaces err to the user. A 401 additionally logs the session out.
// It must not be called with r.mu held: clearing the session resets stores.
func (r *resource[T]) fail(ctx context.Context, op string, err error) error {
	log := logger.For(ctx, r.deps.Logger).With(zap.String("store", r.name), zap.String("op", op))

	if apperrors.KindOf(err) == apperrors.KindUnauthorized {
		log.Warn("backend rejected session, logging out", zap.Error(err))
		r.notify(ctx, notify.Error(notify.LoginAgain))
		if r.deps.Session != nil {
			_ = r.deps.Session.Clear(ctx)
		}
		return err
	}

	log.Warn("storefront operation failed", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
	r.notify(ctx, notify.Error(apperrors.Message(err)))
	return err
}

// invalid rejects an input before any request is sent.
func (r *resource[T]) invalid(ctx context.Context, op, msg string) error {
	return r.fail(ctx, op, apperrors.Validation(msg))
}

func missing(key string) error {
	return apperrors.Decode(fmt.Errorf("response has no %q", key))
}

func successOr(msg, fallback string) notify.Notice {
	if msg == "" {
		msg = fallback
	}
	return notify.Success(msg)
}
