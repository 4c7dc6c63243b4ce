// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"cms-admin/internal/pkg/guard"
	"cms-admin/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionSource is the read side of the session manager.
type SessionSource interface {
	Snapshot() session.Snapshot
}

type AuthMiddleware struct {
	sessions SessionSource
}

func NewAuthMiddleware(sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
	}
}

// Guard redirects anonymous callers to the login page. The snapshot is read on
// every request so a logout takes effect on the next navigation.
func (m *AuthMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.sessions.Snapshot()
		c.Set(sessionKey, s)

		if d := guard.Resolve(routePath(c), s); !d.Allow {
			c.Redirect(http.StatusFound, d.Redirect)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Entry sends callers that are already signed in away from the login and
// register pages. Form submissions are left alone.
func (m *AuthMiddleware) Entry() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.sessions.Snapshot()
		c.Set(sessionKey, s)

		if c.Request.Method == http.MethodGet {
			if d := guard.Resolve(routePath(c), s); !d.Allow {
				c.Redirect(http.StatusFound, d.Redirect)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// routePath is the matched route pattern, or the raw path when gin matched
// nothing.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// GetSession returns the snapshot stored by Guard or Entry.
func GetSession(c *gin.Context) (session.Snapshot, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return session.Snapshot{}, false
	}

	s, ok := v.(session.Snapshot)
	return s, ok
}

// MustGetSession gets the snapshot from context or panics
func MustGetSession(c *gin.Context) session.Snapshot {
	s, ok := GetSession(c)
	if !ok {
		panic("session not found in context")
	}
	return s
}
