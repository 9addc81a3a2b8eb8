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

type catechumeneService interface {
	List(ctx context.Context, req service.CatechumeneListRequest) ([]models.CatechumeneDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.CatechumeneDetail, error)
	Create(ctx context.Context, req service.CreateCatechumeneRequest) (*models.Catechumene, error)
	Update(ctx context.Context, id string, req service.UpdateCatechumeneRequest) (*models.Catechumene, error)
	Deactivate(ctx context.Context, id string) error
}

// CatechumeneHandler exposes student endpoints.
type CatechumeneHandler struct {
	service catechumeneService
}

// NewCatechumeneHandler builds a new handler.
func NewCatechumeneHandler(service catechumeneService) *CatechumeneHandler {
	return &CatechumeneHandler{service: service}
}

// List godoc
// @Summary List catechumenes
// @Tags Catechumenes
// @Produce json
// @Param classe_id query string false "Class filter"
// @Param actif query bool false "Active filter"
// @Param search query string false "Name search"
// @Param sort_by query string false "Sort column (nom, prenom, created_at)"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /catechumenes [get]
func (h *CatechumeneHandler) List(c *gin.Context) {
	req := service.CatechumeneListRequest{
		ClasseID:  c.Query("classe_id"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	if raw := c.Query("actif"); raw != "" {
		actif, err := strconv.ParseBool(raw)
		if err == nil {
			req.Actif = &actif
		}
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get catechumene by id
// @Tags Catechumenes
// @Produce json
// @Param id path string true "Catechumene id"
// @Success 200 {object} response.Envelope
// @Router /catechumenes/{id} [get]
func (h *CatechumeneHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create catechumene
// @Tags Catechumenes
// @Accept json
// @Produce json
// @Param payload body service.CreateCatechumeneRequest true "Catechumene payload"
// @Success 201 {object} response.Envelope
// @Router /catechumenes [post]
func (h *CatechumeneHandler) Create(c *gin.Context) {
	var req service.CreateCatechumeneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catechumene payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update catechumene
// @Tags Catechumenes
// @Accept json
// @Produce json
// @Param id path string true "Catechumene id"
// @Param payload body service.UpdateCatechumeneRequest true "Catechumene payload"
// @Success 200 {object} response.Envelope
// @Router /catechumenes/{id} [put]
func (h *CatechumeneHandler) Update(c *gin.Context) {
	var req service.UpdateCatechumeneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catechumene payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Deactivate godoc
// @Summary Deactivate catechumene
// @Tags Catechumenes
// @Param id path string true "Catechumene id"
// @Success 204
// @Router /catechumenes/{id} [delete]
func (h *CatechumeneHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
