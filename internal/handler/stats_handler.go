package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type statsService interface {
	Overview(ctx context.Context) (*models.AdminStats, error)
	ExportEnrollments(ctx context.Context, format, anneeScolaire string) (*service.ExportResult, error)
}

// StatsHandler exposes the admin dashboard endpoints.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler builds a new handler.
func NewStatsHandler(service statsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Overview godoc
// @Summary Admin dashboard counters
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Export godoc
// @Summary Export enrollments as csv or pdf
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Param annee_scolaire query string false "School year filter"
// @Success 200 {object} response.Envelope
// @Router /admin/stats/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	result, err := h.service.ExportEnrollments(c.Request.Context(), format, c.Query("annee_scolaire"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
