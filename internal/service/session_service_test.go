package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type sessionAdminStub struct {
	admins map[string]models.AdminPhone
}

func (s *sessionAdminStub) FindByPhone(ctx context.Context, phone string) (*models.AdminPhone, error) {
	admin, ok := s.admins[phone]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &admin, nil
}

func (s *sessionAdminStub) SetCodeHash(ctx context.Context, phone, hash string) error {
	admin := s.admins[phone]
	admin.CodeHash = hash
	s.admins[phone] = admin
	return nil
}

func newSessionServiceForTest(t *testing.T) (*SessionService, *sessionAdminStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &sessionAdminStub{admins: map[string]models.AdminPhone{
		"221770000000": {ID: "adm-1", Phone: "221770000000", Label: "Jean", CodeHash: string(hash), Active: true},
	}}
	svc := NewSessionService(repo, SessionConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "concierge"}, nil, nil)
	return svc, repo
}

func TestSessionServiceLogin(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "221770000000", Code: "1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "221770000000", resp.Phone)
	assert.Equal(t, "Jean", resp.Label)

	claims, err := svc.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "221770000000", claims.Phone)
	assert.Equal(t, "concierge", claims.Issuer)
}

func TestSessionServiceLoginWrongCode(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)

	_, err := svc.Login(context.Background(), LoginRequest{Phone: "221770000000", Code: "9999"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceLoginUnknownPhone(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)

	_, err := svc.Login(context.Background(), LoginRequest{Phone: "221779999999", Code: "1234"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceValidateRejectsGarbage(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)

	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
}

func TestSessionServiceSetCode(t *testing.T) {
	svc, repo := newSessionServiceForTest(t)

	require.NoError(t, svc.SetCode(context.Background(), "221770000000", "5678"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.admins["221770000000"].CodeHash), []byte("5678")))

	err := svc.SetCode(context.Background(), "221770000000", "12")
	require.Error(t, err)
}
