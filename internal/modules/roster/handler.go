package roster

import (
	"errors"
	"net/http"
	"strconv"

	"retreatdesk/internal/pkg/response"
	"retreatdesk/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/participants", h.ImportParticipants)
		sessions.GET("/:id/participants", h.ListParticipants)
	}

	rooms := rg.Group("/rooms")
	{
		rooms.POST("", h.ImportRooms)
		rooms.GET("", h.ListRooms)
	}
}

// bind decodes the body and runs struct validation, writing the error
// envelope itself when either fails.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", errs)
		return false
	}
	return true
}

func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !bind(c, &req) {
		return
	}
	session, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// ImportParticipants adds a registration batch to a session.
// @Summary		Import participants
// @Tags		Roster
// @Security	BearerAuth
// @Param		id		path	int							true	"Session ID"
// @Param		request	body	ImportParticipantsRequest	true	"Participants"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}	"Validation errors by field path"
// @Router		/sessions/{id}/participants [POST]
func (h *Handler) ImportParticipants(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req ImportParticipantsRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.service.ImportParticipants(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) ListParticipants(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	ps, err := h.service.ListParticipants(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participants": ps, "count": len(ps)})
}

func (h *Handler) ImportRooms(c *gin.Context) {
	var req ImportRoomsRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.service.ImportRooms(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
	case errors.Is(err, ErrInvalidDates):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrRoomExists):
		response.Error(c, http.StatusConflict, "ROOM_EXISTS", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process roster request")
	}
}
