package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/middleware"
	"taxibooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /admin on an authenticated group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/taxis", h.ListTaxis)
		admin.POST("/taxis", h.AddTaxi)
		admin.PATCH("/taxis/:id/approval", h.SetTaxiApproval)

		admin.GET("/routes", h.ListRoutes)
		admin.POST("/routes", h.AddRoute)

		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats", h.GetStatistics)

		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id", h.UpdateUserStatus)
	}
}

func (h *Handler) AddTaxi(c *gin.Context) {
	var req CreateTaxiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	t, err := h.service.AddTaxi(c.Request.Context(), middleware.CurrentRequester(c).UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Taxi added successfully", t)
}

func (h *Handler) ListTaxis(c *gin.Context) {
	taxis, err := h.service.ListTaxis(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(taxis), "data": taxis})
}

func (h *Handler) SetTaxiApproval(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	t, err := h.service.SetTaxiApproval(c.Request.Context(), id, middleware.CurrentRequester(c).UserID, req.Approved)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) AddRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	r, err := h.service.AddRoute(c.Request.Context(), middleware.CurrentRequester(c).UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Route added successfully", r)
}

func (h *Handler) ListRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(routes), "data": routes})
}

func (h *Handler) ListBookings(c *gin.Context) {
	var taxiID int64
	if raw := c.Query("taxiId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid taxi id")
			return
		}
		taxiID = id
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), c.Query("status"), c.Query("date"), taxiID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bookings), "data": bookings})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "isActive is required")
		return
	}
	u, err := h.service.SetUserActive(c.Request.Context(), id, middleware.CurrentRequester(c).UserID, *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	response.SuccessWithMessage(c, http.StatusOK, fmt.Sprintf("User %s successfully", state), u)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
