package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type classeRepository interface {
	List(ctx context.Context, filter models.ClasseFilter) ([]models.ClasseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ClasseDetail, error)
}

// ClasseService exposes class listings with enrollment headcounts.
type ClasseService struct {
	repo   classeRepository
	logger *zap.Logger
}

// NewClasseService constructs the service.
func NewClasseService(repo classeRepository, logger *zap.Logger) *ClasseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClasseService{repo: repo, logger: logger}
}

// ClasseListRequest describes listing filters.
type ClasseListRequest struct {
	AnneeScolaire string `json:"annee_scolaire"`
	Niveau        string `json:"niveau"`
	Actif         *bool  `json:"actif"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
}

// List returns classes with pagination.
func (s *ClasseService) List(ctx context.Context, req ClasseListRequest) ([]models.ClasseDetail, *models.Pagination, error) {
	filter := models.ClasseFilter{
		AnneeScolaire: req.AnneeScolaire,
		Niveau:        req.Niveau,
		Actif:         req.Actif,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one class by id.
func (s *ClasseService) Get(ctx context.Context, id string) (*models.ClasseDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classe not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get classe")
	}
	return detail, nil
}
