package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type classeService interface {
	List(ctx context.Context, req service.ClasseListRequest) ([]models.ClasseDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClasseDetail, error)
}

// ClasseHandler exposes class endpoints.
type ClasseHandler struct {
	service classeService
}

// NewClasseHandler builds a new handler.
func NewClasseHandler(service classeService) *ClasseHandler {
	return &ClasseHandler{service: service}
}

// List godoc
// @Summary List classes with current headcount
// @Tags Classes
// @Produce json
// @Param annee_scolaire query string false "School year filter"
// @Param niveau query string false "Level filter"
// @Param actif query bool false "Active filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClasseHandler) List(c *gin.Context) {
	req := service.ClasseListRequest{
		AnneeScolaire: c.Query("annee_scolaire"),
		Niveau:        c.Query("niveau"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "page_size", 20),
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
// @Summary Get classe by id
// @Tags Classes
// @Produce json
// @Param id path string true "Classe id"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClasseHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
