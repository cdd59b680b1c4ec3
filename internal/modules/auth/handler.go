package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/domain"
	"taxibooking/internal/middleware"
	"taxibooking/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  toPublic(res.User),
		"token": res.Token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is deactivated")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  toPublic(res.User),
		"token": res.Token,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	requester := middleware.CurrentRequester(c)
	user, err := h.service.GetCurrentUser(c.Request.Context(), requester.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toPublic(user)})
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:    u.ID,
		Role:  string(u.Role),
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}
