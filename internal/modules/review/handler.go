package review

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/middleware"
	"taxibooking/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/taxis/:id/reviews", h.ListByTaxi)
	}
	if protected != nil {
		protected.POST("/bookings/:id/review", h.Submit)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	requester := middleware.CurrentRequester(c)
	rv, err := h.svc.Submit(c.Request.Context(), requester.UserID, bookingID, req.Rating, req.Comment)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Review submitted successfully", rv)
}

func (h *Handler) ListByTaxi(c *gin.Context) {
	taxiID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taxiID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid taxi id")
		return
	}

	items, err := h.svc.ListByTaxi(c.Request.Context(), taxiID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}
