package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/domain"
	"taxibooking/internal/pkg/jwt"
	"taxibooking/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth requires a valid "Bearer <token>" header and stores the caller's id
// and role in the gin context.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(c, http.StatusUnauthorized, "missing_auth")
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			logAuthFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logAuthFailure(c, http.StatusUnauthorized, "invalid_token")
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// CurrentRequester returns the authenticated caller set by JWTAuth.
func CurrentRequester(c *gin.Context) domain.Requester {
	return domain.Requester{
		UserID: c.GetInt64(ctxUserID),
		Role:   domain.UserRole(c.GetString(ctxRole)),
	}
}
