package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
)

// Manager holds the current token and mirrors it into Storage.
// An empty token means logged out.
type Manager struct {
	mu        sync.RWMutex
	token     string
	storage   Storage
	listeners []func(token string)
	log       *zap.Logger
}

// NewManager loads the persisted token, if any.
func NewManager(ctx context.Context, storage Storage, log *zap.Logger) (*Manager, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	m := &Manager{storage: storage, log: logger.OrNop(log)}

	token, ok, err := storage.Get(ctx, TokenKey)
	if err != nil {
		return nil, err
	}
	if ok {
		m.token = token
	}
	return m, nil
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// SetToken persists token. Setting "" is the same as Clear.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return m.Clear(ctx)
	}
	if err := m.storage.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	m.swap(token)
	return nil
}

// Clear empties the token and removes the storage key. The in-memory token
// is cleared even when storage fails.
func (m *Manager) Clear(ctx context.Context) error {
	err := m.storage.Remove(ctx, TokenKey)
	if err != nil {
		logger.For(ctx, m.log).Error("failed to remove persisted token", zap.Error(err))
	}
	m.swap("")
	return err
}

// OnChange registers fn to run after every token change, outside the lock.
func (m *Manager) OnChange(fn func(token string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) swap(token string) {
	m.mu.Lock()
	if m.token == token {
		m.mu.Unlock()
		return
	}
	m.token = token
	listeners := make([]func(string), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(token)
	}
}
