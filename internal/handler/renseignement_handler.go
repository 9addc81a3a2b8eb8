package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type renseignementService interface {
	List(ctx context.Context, req service.RenseignementListRequest) ([]models.Renseignement, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Renseignement, error)
	Create(ctx context.Context, req service.CreateRenseignementRequest) (*models.Renseignement, error)
	Update(ctx context.Context, id string, req service.UpdateRenseignementRequest) (*models.Renseignement, error)
	SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error
	Delete(ctx context.Context, id string) error
}

// RenseignementHandler exposes announcement endpoints.
type RenseignementHandler struct {
	service renseignementService
}

// NewRenseignementHandler builds a new handler.
func NewRenseignementHandler(service renseignementService) *RenseignementHandler {
	return &RenseignementHandler{service: service}
}

// List godoc
// @Summary List renseignements
// @Tags Renseignements
// @Produce json
// @Param categorie query string false "Category filter"
// @Param statut query string false "Status filter"
// @Param active_only query bool false "Only currently active entries"
// @Param search query string false "Title/content search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /renseignements [get]
func (h *RenseignementHandler) List(c *gin.Context) {
	req := service.RenseignementListRequest{
		Categorie:  c.Query("categorie"),
		Statut:     c.Query("statut"),
		ActiveOnly: c.Query("active_only") == "true",
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get renseignement by id
// @Tags Renseignements
// @Produce json
// @Param id path string true "Renseignement id"
// @Success 200 {object} response.Envelope
// @Router /renseignements/{id} [get]
func (h *RenseignementHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create renseignement
// @Tags Renseignements
// @Accept json
// @Produce json
// @Param payload body service.CreateRenseignementRequest true "Renseignement payload"
// @Success 201 {object} response.Envelope
// @Router /renseignements [post]
func (h *RenseignementHandler) Create(c *gin.Context) {
	var req service.CreateRenseignementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid renseignement payload"))
		return
	}
	if req.CreatedBy == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.CreatedBy = claims.Phone
		}
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update renseignement
// @Tags Renseignements
// @Accept json
// @Produce json
// @Param id path string true "Renseignement id"
// @Param payload body service.UpdateRenseignementRequest true "Renseignement payload"
// @Success 200 {object} response.Envelope
// @Router /renseignements/{id} [put]
func (h *RenseignementHandler) Update(c *gin.Context) {
	var req service.UpdateRenseignementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid renseignement payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SetStatut godoc
// @Summary Activate or deactivate a renseignement
// @Tags Renseignements
// @Accept json
// @Produce json
// @Param id path string true "Renseignement id"
// @Success 200 {object} response.Envelope
// @Router /renseignements/{id}/statut [patch]
func (h *RenseignementHandler) SetStatut(c *gin.Context) {
	var req struct {
		Statut string `json:"statut" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid statut payload"))
		return
	}
	if err := h.service.SetStatut(c.Request.Context(), c.Param("id"), models.RenseignementStatut(req.Statut)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "statut": req.Statut}, nil)
}

// Delete godoc
// @Summary Delete renseignement
// @Tags Renseignements
// @Param id path string true "Renseignement id"
// @Success 204
// @Router /renseignements/{id} [delete]
func (h *RenseignementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
