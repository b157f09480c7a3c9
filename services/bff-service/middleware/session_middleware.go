package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
)

const (
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"

	SessionIDKey  = "sessionID"
	AppContextKey = "appContext"
	CollectorKey  = "notices"
)

// SessionID reads the header first, then the cookie.
func SessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// Notices attaches a notice collector to the request context so every
// response can carry the notices raised while serving it.
func Notices() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, col := notify.WithCollector(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Set(CollectorKey, col)
		c.Next()
	}
}

// CollectedNotices returns the notices gathered so far, never nil.
func CollectedNotices(c *gin.Context) []notify.Notice {
	if v, ok := c.Get(CollectorKey); ok {
		if col, ok := v.(*notify.Collector); ok {
			return col.Notices()
		}
	}
	return []notify.Notice{}
}

// RequireSession resolves the session's AppContext. Unknown, expired and
// logged-out sessions get 401.
func RequireSession(reg *sessions.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := SessionID(c)
		app, err := reg.Get(c.Request.Context(), id)
		if err == nil && !app.LoggedIn() {
			reg.Remove(id)
			err = sessions.ErrNotFound
		}
		if err != nil {
			status, msg := http.StatusInternalServerError, "Something went wrong"
			if errors.Is(err, sessions.ErrNotFound) {
				status, msg = http.StatusUnauthorized, notify.LoginAgain
			}
			c.AbortWithStatusJSON(status, gin.H{
				"success": false,
				"message": msg,
				"notices": []notify.Notice{notify.Error(msg)},
			})
			return
		}

		c.Set(SessionIDKey, id)
		c.Set(AppContextKey, app)
		c.Next()
	}
}

func GetAppContext(c *gin.Context) (*appcontext.AppContext, error) {
	val, exists := c.Get(AppContextKey)
	if !exists {
		return nil, errors.New("app context not found in gin context")
	}
	app, ok := val.(*appcontext.AppContext)
	if !ok || app == nil {
		return nil, errors.New("app context has invalid type in gin context")
	}
	return app, nil
}
