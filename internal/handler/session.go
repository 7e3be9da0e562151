package handler

import (
	"context"
	"errors"
	"net/http"

	"epd-map-api/internal/models"
	"epd-map-api/internal/selection"
	"epd-map-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the per-session search/selection state
type SessionHandler struct {
	service SessionManager
}

// SessionManager interface for dependency injection
type SessionManager interface {
	Create(context.Context) (string, selection.Snapshot, error)
	Get(string) (selection.Snapshot, error)
	Type(string, string) (selection.Snapshot, error)
	ClearQuery(string) (selection.Snapshot, error)
	Select(string, string) (selection.Snapshot, error)
	SetFilters(string, selection.Filters) (selection.Snapshot, error)
	Publish(string, selection.Message) (selection.Snapshot, error)
	Markers(string) (models.FilterResult, error)
	Delete(string) error
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc SessionManager) *SessionHandler {
	return &SessionHandler{service: svc}
}

type sessionResponse struct {
	ID string `json:"id"`
	selection.Snapshot
}

type queryRequest struct {
	Query string `json:"query"`
}

type selectRequest struct {
	LocationID string `json:"location_id" binding:"required"`
}

type filtersRequest struct {
	Country         string `json:"country"`
	Category        string `json:"category"`
	YearMin         string `json:"year_min"`
	YearMax         string `json:"year_max"`
	DeclarationOnly bool   `json:"declaration_only"`
}

type eventRequest struct {
	Type string `json:"type" binding:"required"`
}

// Register mounts the session routes on r
func (h *SessionHandler) Register(r gin.IRouter) {
	g := r.Group("/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/query", h.SetQuery)
	g.DELETE("/:id/query", h.ClearQuery)
	g.POST("/:id/select", h.Select)
	g.PUT("/:id/filters", h.SetFilters)
	g.POST("/:id/events", h.Publish)
	g.GET("/:id/markers", h.Markers)
}

// Create handles POST /sessions requests
//
//	@Summary	Open a search/selection session
//	@Tags		sessions
//	@Produce	json
//	@Success	201	{object}	sessionResponse
//	@Failure	500	{object}	map[string]string
//	@Router		/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	id, snap, err := h.service.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, Snapshot: snap})
}

// Get handles GET /sessions/:id requests
//
//	@Summary	Current session state
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session id"
//	@Success	200	{object}	sessionResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	h.respond(c, id)(h.service.Get(id))
}

// SetQuery handles PUT /sessions/:id/query requests
//
//	@Summary	Record a query keystroke
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Session id"
//	@Param		body	body		queryRequest	true	"Query"
//	@Success	200		{object}	sessionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/sessions/{id}/query [put]
func (h *SessionHandler) SetQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id := c.Param("id")
	h.respond(c, id)(h.service.Type(id, req.Query))
}

// ClearQuery handles DELETE /sessions/:id/query requests
//
//	@Summary	Clear the query and selection
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session id"
//	@Success	200	{object}	sessionResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id}/query [delete]
func (h *SessionHandler) ClearQuery(c *gin.Context) {
	id := c.Param("id")
	h.respond(c, id)(h.service.ClearQuery(id))
}

// Select handles POST /sessions/:id/select requests
//
//	@Summary	Select a location
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Session id"
//	@Param		body	body		selectRequest	true	"Location"
//	@Success	200		{object}	sessionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/sessions/{id}/select [post]
func (h *SessionHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'location_id'"})
		return
	}
	id := c.Param("id")
	h.respond(c, id)(h.service.Select(id, req.LocationID))
}

// SetFilters handles PUT /sessions/:id/filters requests
//
//	@Summary	Replace the structural filters
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Session id"
//	@Param		body	body		filtersRequest	true	"Filters"
//	@Success	200		{object}	sessionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/sessions/{id}/filters [put]
func (h *SessionHandler) SetFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	f := filterParams{
		Country:         req.Country,
		Category:        req.Category,
		YearMin:         req.YearMin,
		YearMax:         req.YearMax,
		DeclarationOnly: req.DeclarationOnly,
	}.filters()

	id := c.Param("id")
	h.respond(c, id)(h.service.SetFilters(id, f))
}

// Publish handles POST /sessions/:id/events requests
//
//	@Summary	Send a reset message (filters_reset, search_cleared, all_markers_requested)
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Session id"
//	@Param		body	body		eventRequest	true	"Message"
//	@Success	200		{object}	sessionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/sessions/{id}/events [post]
func (h *SessionHandler) Publish(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'type'"})
		return
	}
	msg, err := selection.ParseMessage(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		return
	}
	id := c.Param("id")
	h.respond(c, id)(h.service.Publish(id, msg))
}

// Markers handles GET /sessions/:id/markers requests
//
//	@Summary	Placed markers for the session's current criteria
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session id"
//	@Success	200	{object}	models.FilterResult
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id}/markers [get]
func (h *SessionHandler) Markers(c *gin.Context) {
	result, err := h.service.Markers(c.Param("id"))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /sessions/:id requests
//
//	@Summary	Close a session
//	@Tags		sessions
//	@Param		id	path	string	true	"Session id"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) respond(c *gin.Context, id string) func(selection.Snapshot, error) {
	return func(snap selection.Snapshot, err error) {
		if err != nil {
			writeSessionError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: snap})
	}
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
