package allocation

import (
	"errors"
	"net/http"
	"strconv"

	"retreatdesk/internal/lock"
	"retreatdesk/internal/middleware"
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
	sessions := rg.Group("/sessions/:id")
	{
		sessions.POST("/allocations/auto", h.AutoAllocate)
		sessions.GET("/allocations", h.List)
		sessions.POST("/allocations", h.CreateManual)
		sessions.GET("/allocations/stats", h.Statistics)
		sessions.POST("/allocations/confirm", h.Confirm)
		sessions.DELETE("/allocations", middleware.AdminOnly(), h.Clear)
		sessions.GET("/conflicts", h.Conflicts)
	}

	allocations := rg.Group("/allocations")
	{
		allocations.DELETE("/:allocationId", h.Delete)
		allocations.POST("/swap", h.Swap)
	}
}

func pathID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// AutoAllocate runs bed allocation and seat generation for a session.
// @Summary		Automatic allocation
// @Tags		Allocations
// @Security	BearerAuth
// @Param		id	path	int	true	"Session ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}	"Another run is in progress"
// @Failure		422	{object}	map[string]interface{}	"No rooms or participants"
// @Router		/sessions/{id}/allocations/auto [POST]
func (h *Handler) AutoAllocate(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	res, err := h.service.AutoAllocate(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	views, err := h.service.ListAllocations(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"allocations": views, "count": len(views)})
}

// CreateManual places one participant in a chosen room.
// @Summary		Manual allocation
// @Tags		Allocations
// @Security	BearerAuth
// @Param		id		path	int				true	"Session ID"
// @Param		request	body	ManualRequest	true	"Participant, room and optional bed"
// @Success		201	{object}	map[string]interface{}
// @Router		/sessions/{id}/allocations [POST]
func (h *Handler) CreateManual(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	a, err := h.service.CreateManual(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"allocation": a})
}

func (h *Handler) Statistics(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	st, err := h.service.Statistics(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"statistics": st})
}

func (h *Handler) Conflicts(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	conflicts, err := h.service.DetectConflicts(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conflicts": conflicts, "count": len(conflicts)})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	n, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"confirmed": n})
}

func (h *Handler) Clear(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	res, err := h.service.Clear(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c, "allocationId", "allocation")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) Swap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.SwapAllocations(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoRooms), errors.Is(err, ErrNoParticipants):
		response.Error(c, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR", err.Error())
	case errors.Is(err, ErrParticipantNotFound):
		response.Error(c, http.StatusNotFound, "PARTICIPANT_NOT_FOUND", "Participant not found")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, ErrAllocationNotFound):
		response.Error(c, http.StatusNotFound, "ALLOCATION_NOT_FOUND", "Allocation not found")
	case errors.Is(err, ErrAlreadyAllocated), errors.Is(err, ErrBedTaken), errors.Is(err, ErrRoomFull):
		response.Error(c, http.StatusConflict, "BED_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrGenderMismatch), errors.Is(err, ErrRoomDisabled), errors.Is(err, ErrBedOutOfRange),
		errors.Is(err, ErrSameAllocation), errors.Is(err, ErrCrossSession):
		response.Error(c, http.StatusBadRequest, "INVALID_ALLOCATION", err.Error())
	case errors.Is(err, lock.ErrSessionBusy):
		response.Error(c, http.StatusConflict, "SESSION_BUSY", "Another allocation run is in progress for this session")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process allocation")
	}
}
