package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/domain"
	"taxibooking/internal/pkg/response"
)

// RequireAnyRole lets the request through only if the caller has one of roles.
func RequireAnyRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		current, _ := role.(string)
		for _, r := range roles {
			if domain.UserRole(current) == r {
				c.Next()
				return
			}
		}

		logAuthFailure(c, http.StatusForbidden, "insufficient_role")
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

func RequireRole(role domain.UserRole) gin.HandlerFunc {
	return RequireAnyRole(role)
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
