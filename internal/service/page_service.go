package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type pageRepository interface {
	Create(ctx context.Context, page *models.TemporaryPage) error
	FindByToken(ctx context.Context, token string) (*models.TemporaryPage, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// PageService manages short-lived shareable content pages.
type PageService struct {
	repo       pageRepository
	defaultTTL time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPageService constructs the service.
func NewPageService(repo pageRepository, defaultTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PageService {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{repo: repo, defaultTTL: defaultTTL, validator: validate, logger: logger}
}

// CreatePageRequest describes the create payload.
type CreatePageRequest struct {
	Titre     string `json:"titre" validate:"required"`
	Contenu   string `json:"contenu" validate:"required"`
	TTLHours  int    `json:"ttl_hours" validate:"omitempty,min=1,max=168"`
	CreatedBy string `json:"created_by" validate:"required"`
}

// Create stores a page and returns it with its access token.
func (s *PageService) Create(ctx context.Context, req CreatePageRequest) (*models.TemporaryPage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	ttl := s.defaultTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}
	token, err := randomToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate token")
	}
	page := &models.TemporaryPage{
		Token:     token,
		Titre:     req.Titre,
		Contenu:   req.Contenu,
		ExpiresAt: time.Now().UTC().Add(ttl),
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, page); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create page")
	}
	return page, nil
}

// Get resolves a page by token. Expired pages read as not found.
func (s *PageService) Get(ctx context.Context, token string) (*models.TemporaryPage, error) {
	page, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "page not found or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get page")
	}
	return page, nil
}

// PurgeExpired removes stale pages, called from the jobs queue.
func (s *PageService) PurgeExpired(ctx context.Context) error {
	removed, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge pages")
	}
	if removed > 0 {
		s.logger.Info("expired pages purged", zap.Int64("count", removed))
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
