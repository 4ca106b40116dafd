package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shugly/internal/pkg/response"
	"shugly/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the resolved *session.Session.
const SessionKey = "session"

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// Authenticate requires a bearer token and attaches the resolved session to the request.
func Authenticate(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		s, err := resolver.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, session.ErrRevoked) {
				response.Abort(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
				return
			}
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(SessionKey, s)
		c.Set("user_id", s.Principal.UserID)
		c.Set("role", string(s.Role()))
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))

		c.Next()
	}
}

// CurrentSession returns the session set by Authenticate.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}
