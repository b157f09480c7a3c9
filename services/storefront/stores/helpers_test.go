package stores_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/clients"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/stores"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/testserver"
)

const (
	testToken = "tok-student-1"
	testUser  = "stu-1"
)

type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recorder) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

type fixture struct {
	srv     *testserver.Server
	storage *session.MemoryStorage
	session *session.Manager
	notices *recorder
	deps    stores.Deps
	ctx     context.Context
}

func newFixture(t *testing.T, shippingCost int) *fixture {
	t.Helper()
	ctx := context.Background()

	srv := testserver.New(shippingCost)
	t.Cleanup(srv.Close)
	srv.AddUser(testToken, testUser)

	storage := session.NewMemoryStorage()
	assert.NoError(t, storage.Set(ctx, session.TokenKey, testToken))
	mgr, err := session.NewManager(ctx, storage, nil)
	assert.NoError(t, err)

	rec := &recorder{}
	return &fixture{
		srv:     srv,
		storage: storage,
		session: mgr,
		notices: rec,
		ctx:     ctx,
		deps: stores.Deps{
			Client:   clients.NewAPIClient(srv.URL, 2*time.Second, mgr),
			Session:  mgr,
			Notifier: rec,
		},
	}
}

func (f *fixture) assertLoggedOut(t *testing.T) {
	t.Helper()
	assert.Equal(t, "", f.session.Token())
	_, ok, err := f.storage.Get(f.ctx, session.TokenKey)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, f.notices.messages(), notify.LoginAgain)
}
