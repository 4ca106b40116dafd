package middleware

import (
	"net/http"
	"slices"

	"shugly/internal/domain"
	"shugly/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole admits sessions whose stored profile has one of roles. A session whose
// profile could not be loaded is refused with 503 rather than treated as any role.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if s.Profile == nil {
			response.Abort(c, http.StatusServiceUnavailable, "PROFILE_UNAVAILABLE", "User profile could not be loaded, try again")
			return
		}

		if !slices.Contains(roles, s.Profile.Role) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
