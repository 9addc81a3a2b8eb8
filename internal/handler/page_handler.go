package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type pageService interface {
	Create(ctx context.Context, req service.CreatePageRequest) (*models.TemporaryPage, error)
	Get(ctx context.Context, token string) (*models.TemporaryPage, error)
}

// PageHandler exposes temporary shareable pages.
type PageHandler struct {
	service pageService
}

// NewPageHandler builds a new handler.
func NewPageHandler(service pageService) *PageHandler {
	return &PageHandler{service: service}
}

// Create godoc
// @Summary Publish a temporary page
// @Tags Pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePageRequest true "Page payload"
// @Success 201 {object} response.Envelope
// @Router /pages [post]
func (h *PageHandler) Create(c *gin.Context) {
	var req service.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid page payload"))
		return
	}
	if req.CreatedBy == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.CreatedBy = claims.Phone
		}
	}
	page, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, page)
}

// Get godoc
// @Summary Read a temporary page by token
// @Tags Pages
// @Produce json
// @Param token path string true "Page token"
// @Success 200 {object} response.Envelope
// @Router /pages/{token} [get]
func (h *PageHandler) Get(c *gin.Context) {
	page, err := h.service.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, nil)
}
