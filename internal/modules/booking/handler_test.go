package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := setupEngine(t)
	h := NewHandler(e.svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			n, _ := strconv.ParseInt(id, 10, 64)
			c.Set("user_id", n)
			c.Set("role", c.GetHeader("X-Test-Role"))
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, e
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func doJSONRequest(t *testing.T, r http.Handler, method, path string, body any, userID int64, role string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User-ID", strconv.FormatInt(userID, 10))
		req.Header.Set("X-Test-Role", role)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var resp apiResponse
	if rr.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	}
	return rr, resp
}

func createBody(e *engine, day string, passengers int) map[string]any {
	return map[string]any{
		"taxiId":         e.taxi.ID,
		"routeId":        e.route.ID,
		"rideDate":       day,
		"passengerCount": passengers,
		"passengerName":  "Meera",
		"passengerPhone": "9811111111",
		"pickupLocation": map[string]string{"location": "Andheri", "time": "06:15"},
	}
}

func TestHandler_BookingLifecycle(t *testing.T) {
	r, e := setupTestRouter(t)
	day := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")

	rr, resp := doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", createBody(e, day, 2), e.user.ID, "user")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		ID          int64  `json:"id"`
		Code        string `json:"bookingId"`
		TotalAmount int64  `json:"totalAmount"`
		Status      string `json:"bookingStatus"`
		Payment     string `json:"paymentStatus"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Regexp(t, codePattern, created.Code)
	assert.Equal(t, int64(320000), created.TotalAmount)
	assert.Equal(t, "confirmed", created.Status)
	assert.Equal(t, "pending", created.Payment)

	rr, resp = doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", createBody(e, day, 2), e.other.ID, "user")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	base := fmt.Sprintf("/api/v1/bookings/%d", created.ID)

	rr, resp = doJSONRequest(t, r, http.MethodGet, base, nil, e.other.ID, "user")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rr, _ = doJSONRequest(t, r, http.MethodGet, base, nil, e.admin.ID, "admin")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSONRequest(t, r, http.MethodPost, base+"/payment", map[string]string{"paymentMethod": "card"}, e.user.ID, "user")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, resp = doJSONRequest(t, r, http.MethodPost, base+"/payment", map[string]string{"paymentMethod": "card"}, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "ALREADY_PAID", resp.Error.Code)

	rr, resp = doJSONRequest(t, r, http.MethodPut, base+"/cancel", map[string]string{"reason": "change of plans"}, e.user.ID, "user")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var cancelled struct {
		RefundAmount     int64 `json:"refundAmount"`
		RefundPercentage int   `json:"refundPercentage"`
		Booking          struct {
			Status  string `json:"bookingStatus"`
			Payment string `json:"paymentStatus"`
			Reason  string `json:"cancellationReason"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cancelled))
	assert.Equal(t, 90, cancelled.RefundPercentage)
	assert.Equal(t, int64(288000), cancelled.RefundAmount)
	assert.Equal(t, "cancelled", cancelled.Booking.Status)
	assert.Equal(t, "refunded", cancelled.Booking.Payment)
	assert.Equal(t, "change of plans", cancelled.Booking.Reason)

	rr, resp = doJSONRequest(t, r, http.MethodPut, base+"/cancel", nil, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "ALREADY_CANCELLED", resp.Error.Code)

	rr, resp = doJSONRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/user/%d", e.user.ID), nil, e.user.ID, "user")
	assert.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list, 1)
}

func TestHandler_CreateBookingValidation(t *testing.T) {
	r, e := setupTestRouter(t)
	day := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")

	rr, resp := doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", createBody(e, day, 7), e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "CAPACITY_EXCEEDED", resp.Error.Code)

	body := createBody(e, day, 2)
	delete(body, "passengerPhone")
	rr, resp = doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", body, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	body = createBody(e, "next tuesday", 2)
	rr, resp = doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", body, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	body = createBody(e, day, 2)
	body["pickupLocation"] = map[string]string{"location": "Andheri", "time": "25:61"}
	rr, resp = doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", body, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	body = createBody(e, day, 2)
	body["taxiId"] = 4040
	rr, resp = doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", body, e.user.ID, "user")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	rr, resp = doJSONRequest(t, r, http.MethodGet, "/api/v1/bookings/abc", nil, e.user.ID, "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestHandler_CompleteAndTicket(t *testing.T) {
	r, e := setupTestRouter(t)
	day := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	rr, resp := doJSONRequest(t, r, http.MethodPost, "/api/v1/bookings", createBody(e, day, 2), e.user.ID, "user")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	base := fmt.Sprintf("/api/v1/bookings/%d", created.ID)

	rr, _ = doJSONRequest(t, r, http.MethodGet, base+"/ticket", nil, e.user.ID, "user")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ticket-TAXI")

	rr, _ = doJSONRequest(t, r, http.MethodPatch, base+"/complete", nil, e.user.ID, "user")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = doJSONRequest(t, r, http.MethodPatch, base+"/complete", nil, e.admin.ID, "admin")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, resp = doJSONRequest(t, r, http.MethodPatch, base+"/complete", nil, e.admin.ID, "admin")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)
}
