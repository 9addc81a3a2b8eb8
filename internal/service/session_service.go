package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type sessionAdminRepo interface {
	FindByPhone(ctx context.Context, phone string) (*models.AdminPhone, error)
	SetCodeHash(ctx context.Context, phone, hash string) error
}

// SessionConfig defines JWT issuance parameters.
type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// SessionService issues and validates admin JWT sessions. Admin phones
// authenticate with a login code checked against a bcrypt hash.
type SessionService struct {
	repo      sessionAdminRepo
	config    SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the service.
func NewSessionService(repo sessionAdminRepo, config SessionConfig, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &SessionService{repo: repo, config: config, validator: validate, logger: logger}
}

// LoginRequest describes the session creation payload.
type LoginRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,min=4"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Phone     string    `json:"phone"`
	Label     string    `json:"label"`
}

// Login authenticates an admin phone with its code and issues a JWT.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.repo.FindByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	if admin.CodeHash == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "no login code set for this phone")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.CodeHash), []byte(req.Code)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.Expiry)
	claims := models.SessionClaims{
		Phone: admin.Phone,
		Label: admin.Label,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   admin.Phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Phone: admin.Phone, Label: admin.Label}, nil
}

// SetCode updates the login code for an admin phone.
func (s *SessionService) SetCode(ctx context.Context, phone, code string) error {
	if len(code) < 4 {
		return appErrors.Clone(appErrors.ErrValidation, "code must be at least 4 characters")
	}
	if _, err := s.repo.FindByPhone(ctx, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin phone not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash code")
	}
	if err := s.repo.SetCodeHash(ctx, phone, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store code")
	}
	return nil
}

// Validate parses a JWT and returns its claims.
func (s *SessionService) Validate(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
