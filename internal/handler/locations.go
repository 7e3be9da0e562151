package handler

import (
	"context"
	"net/http"
	"strconv"

	"epd-map-api/internal/models"
	"epd-map-api/internal/service"

	"github.com/gin-gonic/gin"
)

// LocationHandler handles filtering and placement requests
type LocationHandler struct {
	service LocationService
}

// LocationService interface for dependency injection
type LocationService interface {
	Filter(context.Context, service.Query) (models.FilterResult, error)
	Markers(context.Context, service.Query) (models.FilterResult, error)
	NewArrivals(context.Context, int) ([]models.Location, error)
	Facets(context.Context) (models.Facets, error)
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// List handles GET /locations requests
//
//	@Summary	Filter catalog locations
//	@Tags		locations
//	@Produce	json
//	@Param		country				query		string	false	"Country name or 'all'"
//	@Param		category			query		string	false	"Category substring or 'all'"
//	@Param		year_min			query		string	false	"Lower reference year or 'all'"
//	@Param		year_max			query		string	false	"Upper reference year or 'all'"
//	@Param		declaration_only	query		bool	false	"Only environmental declarations"
//	@Param		q					query		string	false	"Free-text product query"
//	@Success	200					{object}	models.FilterResult
//	@Failure	400					{object}	map[string]string
//	@Failure	500					{object}	map[string]string
//	@Router		/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	h.filter(c, h.service.Filter)
}

// Markers handles GET /markers requests
//
//	@Summary	Filter catalog locations and spread co-located markers
//	@Tags		locations
//	@Produce	json
//	@Param		country				query		string	false	"Country name or 'all'"
//	@Param		category			query		string	false	"Category substring or 'all'"
//	@Param		year_min			query		string	false	"Lower reference year or 'all'"
//	@Param		year_max			query		string	false	"Upper reference year or 'all'"
//	@Param		declaration_only	query		bool	false	"Only environmental declarations"
//	@Param		q					query		string	false	"Free-text product query"
//	@Success	200					{object}	models.FilterResult
//	@Failure	400					{object}	map[string]string
//	@Failure	500					{object}	map[string]string
//	@Router		/markers [get]
func (h *LocationHandler) Markers(c *gin.Context) {
	h.filter(c, h.service.Markers)
}

func (h *LocationHandler) filter(c *gin.Context, run func(context.Context, service.Query) (models.FilterResult, error)) {
	params, err := bindFilterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	result, err := run(c.Request.Context(), service.Query{Criteria: params.criteria(), Text: params.Query})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// NewArrivals handles GET /new-arrivals requests
//
//	@Summary	Locations sorted newest first
//	@Tags		locations
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum number of locations"
//	@Success	200		{array}		models.Location
//	@Failure	400		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/new-arrivals [get]
func (h *LocationHandler) NewArrivals(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = n
	}

	locations, err := h.service.NewArrivals(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// Facets handles GET /facets requests
//
//	@Summary	Filter values present in the catalogs
//	@Tags		locations
//	@Produce	json
//	@Success	200	{object}	models.Facets
//	@Failure	500	{object}	map[string]string
//	@Router		/facets [get]
func (h *LocationHandler) Facets(c *gin.Context) {
	facets, err := h.service.Facets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, facets)
}
