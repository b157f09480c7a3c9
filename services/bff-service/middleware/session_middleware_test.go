package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/middleware"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func memoryFactory(storages map[string]*session.MemoryStorage) sessions.Factory {
	return func(ctx context.Context, id string) (*appcontext.AppContext, error) {
		st, ok := storages[id]
		if !ok {
			st = session.NewMemoryStorage()
			storages[id] = st
		}
		return appcontext.New(ctx, appcontext.Options{
			BackendURL: "http://127.0.0.1:0",
			Storage:    st,
			Notifier:   notify.ContextNotifier{},
		})
	}
}

func TestSessionID_HeaderBeatsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", middleware.SessionID(c))

	c.Request.Header.Set(middleware.SessionHeader, "from-header")
	assert.Equal(t, "from-header", middleware.SessionID(c))
}

func TestNotices_CollectsFromRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Notices())
	r.GET("/", func(c *gin.Context) {
		n := notify.ContextNotifier{}
		n.Notify(c.Request.Context(), notify.Success("Added to cart"))
		n.Notify(c.Request.Context(), notify.Success("Added to cart"))
		c.JSON(http.StatusOK, gin.H{"notices": middleware.CollectedNotices(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body struct {
		Notices []notify.Notice `json:"notices"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []notify.Notice{notify.Success("Added to cart")}, body.Notices)
}

func TestCollectedNotices_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, middleware.CollectedNotices(c))
	assert.Empty(t, middleware.CollectedNotices(c))
}

func TestRequireSession(t *testing.T) {
	storages := map[string]*session.MemoryStorage{}
	reg := sessions.NewRegistry(memoryFactory(storages), time.Hour, nil)
	ctx := context.Background()

	loggedIn, app, err := reg.Create(ctx)
	assert.NoError(t, err)
	assert.NoError(t, app.Session.SetToken(ctx, "tok"))
	loggedOut, _, err := reg.Create(ctx)
	assert.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Notices(), middleware.RequireSession(reg))
	r.GET("/me", func(c *gin.Context) {
		got, err := middleware.GetAppContext(c)
		assert.NoError(t, err)
		assert.Same(t, app, got)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		sessionID  string
		wantStatus int
	}{
		{"valid session", loggedIn, http.StatusNoContent},
		{"no session", "", http.StatusUnauthorized},
		{"unknown session", "nope", http.StatusUnauthorized},
		{"logged out session", loggedOut, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.sessionID != "" {
				req.Header.Set(middleware.SessionHeader, tt.sessionID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), notify.LoginAgain)
			}
		})
	}

	// The logged-out session was evicted on first use.
	assert.Equal(t, 1, reg.Len())
}

func TestRequireSession_FactoryFailureIs500(t *testing.T) {
	reg := sessions.NewRegistry(func(context.Context, string) (*appcontext.AppContext, error) {
		return nil, errors.New("redis down")
	}, time.Hour, nil)

	r := gin.New()
	r.Use(middleware.RequireSession(reg))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(middleware.SessionHeader, "some-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestGetAppContext_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetAppContext(c)
	assert.Error(t, err)
}
