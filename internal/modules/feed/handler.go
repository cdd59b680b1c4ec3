package feed

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taxibooking/internal/domain"
	"taxibooking/internal/pkg/jwt"
	"taxibooking/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	tokens   *jwt.Service
	upgrader websocket.Upgrader
}

// NewHandler builds the live feed endpoint. An empty origins list accepts any
// origin.
func NewHandler(hub *Hub, tokens *jwt.Service, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/feed", h.Serve)
}

// Serve upgrades an admin to the live booking feed. Browsers cannot set
// headers on a websocket handshake, so the token may come as ?token=.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if domain.UserRole(claims.Role) != domain.RoleAdmin {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	h.hub.Serve(conn, claims.UserID)
}
