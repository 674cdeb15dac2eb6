package middleware

import (
	"context"

	"servicebooking/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID    = "user_id"
	CtxUsername  = "username"
	CtxRole      = "role"
	CtxSessionID = "session_id"
)

// SessionResolver turns a session token into an active session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// SessionAuth reads the session cookie and, when it names an active session,
// stores the actor in the gin context. Anonymous requests pass through.
func SessionAuth(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxUsername, sess.Username)
		c.Set(CtxRole, string(sess.Role))
		c.Set(CtxSessionID, sess.ID)
		c.Next()
	}
}

func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

func Role(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString(CtxRole))
}

func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

func IsAuthenticated(c *gin.Context) bool {
	return UserID(c) > 0
}
