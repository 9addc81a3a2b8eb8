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

type inscriptionService interface {
	List(ctx context.Context, req service.InscriptionListRequest) ([]models.InscriptionDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.InscriptionDetail, error)
	Create(ctx context.Context, req service.CreateInscriptionRequest) (*models.Inscription, error)
	UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) (*models.InscriptionDetail, error)
}

// InscriptionHandler exposes enrollment endpoints.
type InscriptionHandler struct {
	service inscriptionService
}

// NewInscriptionHandler builds a new handler.
func NewInscriptionHandler(service inscriptionService) *InscriptionHandler {
	return &InscriptionHandler{service: service}
}

// List godoc
// @Summary List inscriptions
// @Tags Inscriptions
// @Produce json
// @Param catechumene_id query string false "Student filter"
// @Param classe_id query string false "Class filter"
// @Param annee_scolaire query string false "School year filter"
// @Param statut query string false "Status filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /inscriptions [get]
func (h *InscriptionHandler) List(c *gin.Context) {
	req := service.InscriptionListRequest{
		CatechumeneID: c.Query("catechumene_id"),
		ClasseID:      c.Query("classe_id"),
		AnneeScolaire: c.Query("annee_scolaire"),
		Statut:        c.Query("statut"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "page_size", 20),
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get inscription by id
// @Tags Inscriptions
// @Produce json
// @Param id path string true "Inscription id"
// @Success 200 {object} response.Envelope
// @Router /inscriptions/{id} [get]
func (h *InscriptionHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create inscription
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Param payload body service.CreateInscriptionRequest true "Inscription payload"
// @Success 201 {object} response.Envelope
// @Router /inscriptions [post]
func (h *InscriptionHandler) Create(c *gin.Context) {
	var req service.CreateInscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inscription payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateStatut godoc
// @Summary Update inscription status
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Param id path string true "Inscription id"
// @Success 200 {object} response.Envelope
// @Router /inscriptions/{id}/statut [patch]
func (h *InscriptionHandler) UpdateStatut(c *gin.Context) {
	var req struct {
		Statut string `json:"statut" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid statut payload"))
		return
	}
	item, err := h.service.UpdateStatut(c.Request.Context(), c.Param("id"), models.InscriptionStatut(req.Statut))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
