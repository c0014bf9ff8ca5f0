package hallconfig

import (
	"errors"
	"net/http"
	"strconv"

	"retreatdesk/internal/layout"
	"retreatdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/sessions/:id/hall-config", h.Upsert)
	rg.GET("/sessions/:id/hall-config", h.Get)
	rg.GET("/sessions/:id/hall-config/compiled", h.Compile)
	rg.POST("/hall-config/preview", h.Preview)
}

func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return 0, false
	}
	return id, true
}

// Upsert stores the hall layout of a session.
// @Summary		Store hall layout
// @Tags		Hall configuration
// @Security	BearerAuth
// @Param		id		path	int				true	"Session ID"
// @Param		request	body	UpsertRequest	true	"Hall name and layout"
// @Success		200	{object}	map[string]interface{}
// @Failure		422	{object}	map[string]interface{}	"Layout validation issues"
// @Router		/sessions/{id}/hall-config [PUT]
func (h *Handler) Upsert(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.Upsert(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hall_config": view})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hall_config": view})
}

func (h *Handler) Compile(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	compiled, err := h.service.Compile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"compiled": compiled, "usable_seats": compiled.UsableCount()})
}

func (h *Handler) Preview(c *gin.Context) {
	var l layout.HallLayout
	if err := c.ShouldBindJSON(&l); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	response.Success(c, http.StatusOK, h.service.Preview(l))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var layoutErr *LayoutError
	switch {
	case errors.As(err, &layoutErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "INVALID_LAYOUT", "Hall layout is invalid", layoutErr.Issues)
	case errors.Is(err, ErrHallConfigMissing):
		response.Error(c, http.StatusNotFound, "HALL_CONFIG_MISSING", "Session has no hall configuration")
	case errors.Is(err, ErrHallConfigAmbiguous), errors.Is(err, ErrInvalidLayout):
		response.Error(c, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process hall configuration")
	}
}
