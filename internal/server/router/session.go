package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionKey   = "session"
	requestIDKey = "request_id"

	// RoleAdmin gates every mutating route.
	RoleAdmin = "admin"
)

// Session carries the identity the upstream auth proxy attached to the
// request. Credential verification happens before traffic reaches this
// service; here the headers are only materialized into an explicit value.
type Session struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the session belongs to a back-office administrator.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// SessionFrom extracts the session attached to the request, if any.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, Session{
			UserID: c.GetHeader("X-User-Id"),
			Role:   c.GetHeader("X-User-Role"),
		})
		c.Next()
	}
}

// RequireAdmin rejects requests whose session lacks the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok || !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "akses khusus admin"})
			return
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}
