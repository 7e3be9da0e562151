package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"epd-map-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search dropdown requests
type SearchHandler struct {
	service SearchService
}

// SearchService interface for dependency injection
type SearchService interface {
	Search(context.Context, string, int) ([]models.SearchHit, error)
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Search handles GET /search requests
//
//	@Summary	Fuzzy product name search over the general catalog
//	@Tags		search
//	@Produce	json
//	@Param		q		query		string	true	"Product query"
//	@Param		limit	query		int		false	"Maximum number of hits"
//	@Success	200		{array}		models.SearchHit
//	@Failure	400		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = n
	}

	hits, err := h.service.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, hits)
}
