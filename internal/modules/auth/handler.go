package auth

import (
	"errors"
	"net/http"

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/operators/me", h.GetMe)
	protected.POST("/operators", middleware.AdminOnly(), h.CreateOperator)
}

// Login issues an access token for an operator.
// @Summary		Operator login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Email and password"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	op, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"operator": toPublic(op),
		"token":    token,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	op, err := h.service.GetOperator(c.Request.Context(), c.GetInt64("operator_id"))
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Operator not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load operator")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"operator": toPublic(op)})
}

func (h *Handler) CreateOperator(c *gin.Context) {
	var req CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	op, err := h.service.CreateOperator(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create operator")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"operator": toPublic(op)})
}
