package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taxibooking/internal/domain"
	"taxibooking/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, _ := jwtService.GenerateToken(42, "driver")

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		r := CurrentRequester(c)
		c.JSON(http.StatusOK, gin.H{"user_id": r.UserID, "role": r.Role})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "driver")
}

func TestJWTAuth_Rejections(t *testing.T) {
	other := jwt.New("other-secret", time.Hour)
	foreign, _ := other.GenerateToken(7, "user")

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{name: "no header", header: "", code: "AUTH_HEADER_MISSING"},
		{name: "basic scheme", header: "Basic dGVzdA==", code: "INVALID_AUTH_FORMAT"},
		{name: "empty bearer", header: "Bearer ", code: "INVALID_AUTH_FORMAT"},
		{name: "garbage", header: "Bearer invalid-jwt-here", code: "INVALID_TOKEN"},
		{name: "wrong secret", header: "Bearer " + foreign, code: "INVALID_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuth(jwt.New("secret", time.Hour)))
			router.GET("/protected", func(c *gin.Context) {
				t.Fatal("handler should not be reached")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	jwtService := jwt.New("secret", -time.Minute)
	expired, _ := jwtService.GenerateToken(1, "user")

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAnyRole(t *testing.T) {
	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if role != "" {
				c.Set(ctxRole, role)
			}
			c.Next()
		})
		r.PATCH("/complete", RequireAnyRole(domain.RoleAdmin, domain.RoleDriver), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	for role, want := range map[string]int{
		"admin":  http.StatusNoContent,
		"driver": http.StatusNoContent,
		"user":   http.StatusForbidden,
		"":       http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		newRouter(role).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/complete", nil))
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, requestID(c)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestErrorLogger_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(ErrorLogger())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
