package search

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalog endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	taxis := rg.Group("/taxis")
	taxis.GET("", h.Featured)
	taxis.GET("/search", h.Search)
	taxis.GET("/:id", h.Details)
}

func (h *Handler) Search(c *gin.Context) {
	res, err := h.service.SearchAvailability(c.Request.Context(), c.Query("source"), c.Query("destination"), c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(res),
		"data":    res,
	})
}

func (h *Handler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	taxis, err := h.service.FeaturedTaxis(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(taxis),
		"data":    taxis,
	})
}

func (h *Handler) Details(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid taxi id")
		return
	}

	details, err := h.service.TaxiDetails(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}
