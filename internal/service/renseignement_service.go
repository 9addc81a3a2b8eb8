package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type renseignementRepository interface {
	List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error)
	FindByID(ctx context.Context, id string) (*models.Renseignement, error)
	Create(ctx context.Context, item *models.Renseignement) error
	Update(ctx context.Context, item *models.Renseignement) error
	SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error
	Delete(ctx context.Context, id string) error
}

type invalidatingCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RenseignementService handles announcement workflows for the REST API.
type RenseignementService struct {
	repo      renseignementRepository
	cache     invalidatingCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRenseignementService constructs the service. cache may be nil.
func NewRenseignementService(repo renseignementRepository, cache invalidatingCache, validate *validator.Validate, logger *zap.Logger) *RenseignementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &RenseignementService{repo: repo, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("priorite", func(fl validator.FieldLevel) bool {
		switch models.RenseignementPriorite(strings.ToLower(fl.Field().String())) {
		case models.RenseignementPrioriteNormale, models.RenseignementPrioriteHaute, models.RenseignementPrioriteUrgente:
			return true
		default:
			return false
		}
	})
	return svc
}

// RenseignementListRequest describes listing filters.
type RenseignementListRequest struct {
	Categorie  string `json:"categorie"`
	Statut     string `json:"statut"`
	ActiveOnly bool   `json:"active_only"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// CreateRenseignementRequest describes the create payload.
type CreateRenseignementRequest struct {
	Titre     string     `json:"titre" validate:"required"`
	Contenu   string     `json:"contenu" validate:"required"`
	Categorie string     `json:"categorie"`
	Priorite  string     `json:"priorite" validate:"omitempty,priorite"`
	DateDebut *time.Time `json:"date_debut"`
	DateFin   *time.Time `json:"date_fin"`
	CreatedBy string     `json:"created_by" validate:"required"`
}

// UpdateRenseignementRequest describes the update payload.
type UpdateRenseignementRequest struct {
	Titre     string     `json:"titre" validate:"required"`
	Contenu   string     `json:"contenu" validate:"required"`
	Categorie string     `json:"categorie"`
	Priorite  string     `json:"priorite" validate:"omitempty,priorite"`
	DateDebut *time.Time `json:"date_debut"`
	DateFin   *time.Time `json:"date_fin"`
}

// List returns announcements with pagination.
func (s *RenseignementService) List(ctx context.Context, req RenseignementListRequest) ([]models.Renseignement, *models.Pagination, error) {
	filter := models.RenseignementFilter{
		Categorie:  req.Categorie,
		Statut:     models.RenseignementStatut(req.Statut),
		ActiveOnly: req.ActiveOnly,
		Search:     req.Search,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list renseignements")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one announcement by id.
func (s *RenseignementService) Get(ctx context.Context, id string) (*models.Renseignement, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "renseignement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get renseignement")
	}
	return item, nil
}

// Create registers a new announcement.
func (s *RenseignementService) Create(ctx context.Context, req CreateRenseignementRequest) (*models.Renseignement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.DateDebut != nil && req.DateFin != nil && req.DateFin.Before(*req.DateDebut) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_fin must be after date_debut")
	}
	item := &models.Renseignement{
		Titre:     req.Titre,
		Contenu:   req.Contenu,
		Categorie: req.Categorie,
		Priorite:  models.RenseignementPriorite(strings.ToLower(req.Priorite)),
		Statut:    models.RenseignementStatutActif,
		DateDebut: req.DateDebut,
		DateFin:   req.DateFin,
		CreatedBy: req.CreatedBy,
	}
	if item.Categorie == "" {
		item.Categorie = "general"
	}
	if item.Priorite == "" {
		item.Priorite = models.RenseignementPrioriteNormale
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create renseignement")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update modifies an existing announcement.
func (s *RenseignementService) Update(ctx context.Context, id string, req UpdateRenseignementRequest) (*models.Renseignement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Titre = req.Titre
	existing.Contenu = req.Contenu
	if req.Categorie != "" {
		existing.Categorie = req.Categorie
	}
	if req.Priorite != "" {
		existing.Priorite = models.RenseignementPriorite(strings.ToLower(req.Priorite))
	}
	existing.DateDebut = req.DateDebut
	existing.DateFin = req.DateFin
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update renseignement")
	}
	s.invalidate(ctx)
	return existing, nil
}

// SetStatut activates or deactivates an announcement.
func (s *RenseignementService) SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error {
	switch statut {
	case models.RenseignementStatutActif, models.RenseignementStatutInactif:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "statut must be actif or inactif")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetStatut(ctx, id, statut); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set renseignement statut")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes an announcement permanently.
func (s *RenseignementService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete renseignement")
	}
	s.invalidate(ctx)
	return nil
}

func (s *RenseignementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "concierge:renseignements:*"); err != nil {
		s.logger.Debug("renseignement cache invalidation failed", zap.Error(err))
	}
}
