package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func SuccessWithMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes a domain error with its stable kind. Anything that is not a
// domain error is reported as an internal error and attached to the context
// so ErrorLogger picks it up.
func FromError(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	if domain.IsRetryable(err) {
		ErrorWithDetails(c, StatusFor(kind), string(kind), err.Error(), gin.H{"retryable": true})
		return
	}
	Error(c, StatusFor(kind), string(kind), err.Error())
}

func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindValidation, domain.KindCapacity,
		domain.KindAlreadyCancelled, domain.KindAlreadyPaid,
		domain.KindPastBooking, domain.KindInvalidState:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
