package seat

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"retreatdesk/internal/events"
	"retreatdesk/internal/lock"
	"retreatdesk/internal/middleware"
	"retreatdesk/internal/modules/hallconfig"
	"retreatdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// seat boards are wall screens on the retreat network
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service *Service
	board   *events.Board
}

func NewHandler(service *Service, board *events.Board) *Handler {
	return &Handler{service: service, board: board}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions/:id/seats")
	{
		sessions.GET("", h.List)
		sessions.POST("/generate", h.Generate)
		sessions.GET("/stats", h.Statistics)
		sessions.GET("/live", h.Live)
		sessions.DELETE("", middleware.AdminOnly(), h.Clear)
	}

	seats := rg.Group("/seats")
	{
		seats.GET("/:seatId", h.Get)
		seats.POST("/swap", h.Swap)
		seats.POST("/assign", h.Assign)
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

// Generate rebuilds the meditation hall seat map of a session.
// @Summary		Generate seats
// @Tags		Seats
// @Security	BearerAuth
// @Param		id	path	int	true	"Session ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		422	{object}	map[string]interface{}	"Missing or invalid hall configuration"
// @Failure		409	{object}	map[string]interface{}	"Another run is in progress"
// @Router		/sessions/{id}/seats/generate [POST]
func (h *Handler) Generate(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	res, err := h.service.GenerateSeats(c.Request.Context(), id)
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
	seats, err := h.service.ListSeats(c.Request.Context(), id, c.Query("region"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"seats": seats, "count": len(seats)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c, "seatId", "seat")
	if !ok {
		return
	}
	seat, err := h.service.GetSeat(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"seat": seat})
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

// Swap exchanges the occupants of two seats.
// @Summary		Swap seats
// @Tags		Seats
// @Security	BearerAuth
// @Param		request	body	SwapRequest	true	"Seat ids"
// @Success		200	{object}	map[string]interface{}
// @Router		/seats/swap [POST]
func (h *Handler) Swap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.SwapSeats(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.AssignSeat(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Clear(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	n, err := h.service.ClearSeats(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}

// Live streams seat events of a session over a websocket.
//
// Endpoint: GET /sessions/:id/seats/live?access_token=JWT
func (h *Handler) Live(c *gin.Context) {
	id, ok := pathID(c, "id", "session")
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("seat: websocket upgrade failed session_id=%d err=%v", id, err)
		return
	}

	h.board.Register(id, conn)
	log.Printf("seat: board connected session_id=%d screens=%d", id, h.board.Count(id))
	defer func() {
		h.board.Unregister(id, conn)
		log.Printf("seat: board disconnected session_id=%d", id)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("seat: websocket error session_id=%d err=%v", id, err)
			}
			return
		}
	}
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSeatNotFound):
		response.Error(c, http.StatusNotFound, "SEAT_NOT_FOUND", "Seat not found")
	case errors.Is(err, ErrParticipantNotFound):
		response.Error(c, http.StatusNotFound, "PARTICIPANT_NOT_FOUND", "Participant not found")
	case errors.Is(err, ErrSameSeat), errors.Is(err, ErrCrossSession), errors.Is(err, ErrBothSeatsEmpty):
		response.Error(c, http.StatusBadRequest, "INVALID_SEAT_CHANGE", err.Error())
	case errors.Is(err, ErrSeatReserved), errors.Is(err, ErrSeatOccupied):
		response.Error(c, http.StatusConflict, "SEAT_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrGenderMismatch):
		response.Error(c, http.StatusUnprocessableEntity, "GENDER_MISMATCH", err.Error())
	case errors.Is(err, lock.ErrSessionBusy):
		response.Error(c, http.StatusConflict, "SESSION_BUSY", "Another allocation run is in progress for this session")
	case errors.Is(err, hallconfig.ErrHallConfigMissing), errors.Is(err, hallconfig.ErrHallConfigAmbiguous), errors.Is(err, hallconfig.ErrInvalidLayout):
		response.Error(c, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process seats")
	}
}
