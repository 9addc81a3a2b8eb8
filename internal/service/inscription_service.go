package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type inscriptionRepository interface {
	List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.InscriptionDetail, error)
	FindActiveByCatechumene(ctx context.Context, catechumeneID, anneeScolaire string) (*models.Inscription, error)
	Create(ctx context.Context, enrollment *models.Inscription) error
	UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) error
}

type inscriptionStudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.CatechumeneDetail, error)
}

type inscriptionClasseLookup interface {
	FindByID(ctx context.Context, id string) (*models.ClasseDetail, error)
}

// InscriptionService handles enrollment workflows.
type InscriptionService struct {
	repo      inscriptionRepository
	students  inscriptionStudentLookup
	classes   inscriptionClasseLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInscriptionService constructs the service.
func NewInscriptionService(repo inscriptionRepository, students inscriptionStudentLookup, classes inscriptionClasseLookup, validate *validator.Validate, logger *zap.Logger) *InscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InscriptionService{repo: repo, students: students, classes: classes, validator: validate, logger: logger}
}

// InscriptionListRequest describes listing filters.
type InscriptionListRequest struct {
	CatechumeneID string `json:"catechumene_id"`
	ClasseID      string `json:"classe_id"`
	AnneeScolaire string `json:"annee_scolaire"`
	Statut        string `json:"statut"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
}

// CreateInscriptionRequest describes the create payload.
type CreateInscriptionRequest struct {
	CatechumeneID string `json:"catechumene_id" validate:"required"`
	ClasseID      string `json:"classe_id" validate:"required"`
	AnneeScolaire string `json:"annee_scolaire" validate:"required"`
}

// List returns enrollments with pagination.
func (s *InscriptionService) List(ctx context.Context, req InscriptionListRequest) ([]models.InscriptionDetail, *models.Pagination, error) {
	filter := models.InscriptionFilter{
		CatechumeneID: req.CatechumeneID,
		ClasseID:      req.ClasseID,
		AnneeScolaire: req.AnneeScolaire,
		Statut:        models.InscriptionStatut(req.Statut),
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
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inscriptions")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one enrollment by id.
func (s *InscriptionService) Get(ctx context.Context, id string) (*models.InscriptionDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inscription not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get inscription")
	}
	return detail, nil
}

// Create enrolls a student into a class for a school year. A student may
// hold at most one pending or validated enrollment per year.
func (s *InscriptionService) Create(ctx context.Context, req CreateInscriptionRequest) (*models.Inscription, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.students.FindByID(ctx, req.CatechumeneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "catechumene not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catechumene")
	}
	if _, err := s.classes.FindByID(ctx, req.ClasseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classe not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classe")
	}
	if _, err := s.repo.FindActiveByCatechumene(ctx, req.CatechumeneID, req.AnneeScolaire); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "catechumene already enrolled for this school year")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing inscription")
	}

	enrollment := &models.Inscription{
		CatechumeneID: req.CatechumeneID,
		ClasseID:      req.ClasseID,
		AnneeScolaire: req.AnneeScolaire,
		Statut:        models.InscriptionStatutEnAttente,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inscription")
	}
	return enrollment, nil
}

// UpdateStatut transitions an enrollment. Cancelled enrollments are
// terminal.
func (s *InscriptionService) UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) (*models.InscriptionDetail, error) {
	switch statut {
	case models.InscriptionStatutEnAttente, models.InscriptionStatutValidee, models.InscriptionStatutAnnulee:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "statut must be en_attente, validee or annulee")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Statut == models.InscriptionStatutAnnulee {
		return nil, appErrors.Clone(appErrors.ErrConflict, "inscription already cancelled")
	}
	if err := s.repo.UpdateStatut(ctx, id, statut); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inscription")
	}
	existing.Statut = statut
	return existing, nil
}
