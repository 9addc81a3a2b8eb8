package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type catechumeneRepository interface {
	List(ctx context.Context, filter models.CatechumeneFilter) ([]models.CatechumeneDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CatechumeneDetail, error)
	Create(ctx context.Context, student *models.Catechumene) error
	Update(ctx context.Context, student *models.Catechumene) error
	Deactivate(ctx context.Context, id string) error
}

// CatechumeneService handles student workflows.
type CatechumeneService struct {
	repo      catechumeneRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatechumeneService constructs the service.
func NewCatechumeneService(repo catechumeneRepository, validate *validator.Validate, logger *zap.Logger) *CatechumeneService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatechumeneService{repo: repo, validator: validate, logger: logger}
}

// CatechumeneListRequest describes listing filters.
type CatechumeneListRequest struct {
	ClasseID  string `json:"classe_id"`
	Actif     *bool  `json:"actif"`
	Search    string `json:"search"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// CreateCatechumeneRequest describes the create payload.
type CreateCatechumeneRequest struct {
	Nom             string     `json:"nom" validate:"required"`
	Prenom          string     `json:"prenom" validate:"required"`
	DateNaissance   *time.Time `json:"date_naissance"`
	TelephoneTuteur string     `json:"telephone_tuteur" validate:"required"`
	Paroisse        string     `json:"paroisse"`
}

// UpdateCatechumeneRequest describes the update payload.
type UpdateCatechumeneRequest struct {
	Nom             string     `json:"nom" validate:"required"`
	Prenom          string     `json:"prenom" validate:"required"`
	DateNaissance   *time.Time `json:"date_naissance"`
	TelephoneTuteur string     `json:"telephone_tuteur" validate:"required"`
	Paroisse        string     `json:"paroisse"`
}

// List returns students with pagination.
func (s *CatechumeneService) List(ctx context.Context, req CatechumeneListRequest) ([]models.CatechumeneDetail, *models.Pagination, error) {
	filter := models.CatechumeneFilter{
		ClasseID:  req.ClasseID,
		Actif:     req.Actif,
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catechumenes")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one student by id.
func (s *CatechumeneService) Get(ctx context.Context, id string) (*models.CatechumeneDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "catechumene not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get catechumene")
	}
	return detail, nil
}

// Create registers a new student.
func (s *CatechumeneService) Create(ctx context.Context, req CreateCatechumeneRequest) (*models.Catechumene, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student := &models.Catechumene{
		Nom:             req.Nom,
		Prenom:          req.Prenom,
		DateNaissance:   req.DateNaissance,
		TelephoneTuteur: req.TelephoneTuteur,
		Paroisse:        req.Paroisse,
		Actif:           true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create catechumene")
	}
	return student, nil
}

// Update modifies an existing student.
func (s *CatechumeneService) Update(ctx context.Context, id string, req UpdateCatechumeneRequest) (*models.Catechumene, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	student := detail.Catechumene
	student.Nom = req.Nom
	student.Prenom = req.Prenom
	student.DateNaissance = req.DateNaissance
	student.TelephoneTuteur = req.TelephoneTuteur
	student.Paroisse = req.Paroisse
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update catechumene")
	}
	return &student, nil
}

// Deactivate marks a student inactive without touching enrollments.
func (s *CatechumeneService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate catechumene")
	}
	return nil
}
