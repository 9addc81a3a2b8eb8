package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/service"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	SetCode(ctx context.Context, phone, code string) error
}

// SessionHandler exposes admin authentication endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Login godoc
// @Summary Authenticate an admin phone with its access code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Me godoc
// @Summary Return the current session claims
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /sessions/me [get]
func (h *SessionHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"phone":      claims.Phone,
		"label":      claims.Label,
		"expires_at": claims.ExpiresAt,
	}, nil)
}

// SetCode godoc
// @Summary Set the access code of an allowlisted admin phone
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /sessions/code [put]
func (h *SessionHandler) SetCode(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid code payload"))
		return
	}
	if err := h.service.SetCode(c.Request.Context(), req.Phone, req.Code); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"phone": req.Phone}, nil)
}
