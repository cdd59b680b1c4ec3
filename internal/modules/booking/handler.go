package booking

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/domain"
	"taxibooking/internal/middleware"
	"taxibooking/internal/pkg/response"
	"taxibooking/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects rg to sit behind JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("/user/:userId", h.ListUserBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id/cancel", h.CancelBooking)
	bookings.POST("/:id/payment", h.ProcessPayment)
	bookings.GET("/:id/ticket", h.Ticket)
	bookings.PATCH("/:id/complete", middleware.RequireAnyRole(domain.RoleAdmin, domain.RoleDriver), h.CompleteBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	in, err := h.toCreateInput(middleware.CurrentRequester(c).UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Booking created successfully", b)
}

func (h *Handler) toCreateInput(userID int64, req CreateBookingRequest) (CreateBookingInput, error) {
	in := CreateBookingInput{
		UserID:         userID,
		TaxiID:         req.TaxiID,
		RouteID:        req.RouteID,
		PassengerCount: req.PassengerCount,
		Passenger:      domain.PassengerContact{Name: req.PassengerName, Phone: req.PassengerPhone},
	}

	if req.RideDate != "" {
		rideDate, err := parseRideDate(req.RideDate, h.service.Location())
		if err != nil {
			return in, err
		}
		in.RideDate = rideDate
	}

	var err error
	if in.Pickup, err = toStop("pickupLocation", req.PickupLocation); err != nil {
		return in, err
	}
	if in.Drop, err = toStop("dropLocation", req.DropLocation); err != nil {
		return in, err
	}
	return in, nil
}

// parseRideDate accepts a bare date, taken as midnight in loc, or an RFC3339
// timestamp.
func parseRideDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DayLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "rideDate", Msg: "must be YYYY-MM-DD or RFC3339"}
	}
	return t, nil
}

func toStop(field string, in *StopRequest) (domain.Stop, error) {
	if in == nil {
		return domain.Stop{}, nil
	}
	if in.Time != "" && !validator.IsHHMM(in.Time) {
		return domain.Stop{}, &domain.ValidationError{Field: field + ".time", Msg: "must be HH:MM"}
	}
	return domain.Stop{Location: in.Location, Time: in.Time}, nil
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, middleware.CurrentRequester(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListUserBookings(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	list, err := h.service.ListUserBookings(c.Request.Context(), userID, middleware.CurrentRequester(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	res, err := h.service.CancelBooking(c.Request.Context(), id, middleware.CurrentRequester(c), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Booking cancelled successfully", res)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "paymentMethod is required")
		return
	}

	b, err := h.service.ProcessPayment(c.Request.Context(), id, middleware.CurrentRequester(c), req.PaymentMethod, req.TransactionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Payment processed successfully", b)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.CompleteBooking(c.Request.Context(), id, middleware.CurrentRequester(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Ticket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pdf, code, err := h.service.Ticket(c.Request.Context(), id, middleware.CurrentRequester(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, code))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param)
		return 0, false
	}
	return id, true
}
