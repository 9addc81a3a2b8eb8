package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/middleware"
	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type sessionServiceMock struct {
	loginResp *service.LoginResponse
	loginErr  error
	codeSet   map[string]string
}

func (m *sessionServiceMock) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *sessionServiceMock) SetCode(ctx context.Context, phone, code string) error {
	if m.codeSet == nil {
		m.codeSet = map[string]string{}
	}
	m.codeSet[phone] = code
	return nil
}

func TestSessionHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&sessionServiceMock{
		loginResp: &service.LoginResponse{Token: "jwt-token", Phone: "221770000099", ExpiresAt: time.Now().Add(time.Hour)},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{"phone":"221770000099","code":"1234"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jwt-token")
}

func TestSessionHandlerLoginRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&sessionServiceMock{
		loginErr: appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid phone or code"),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{"phone":"221770000099","code":"0000"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestSessionHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&sessionServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/sessions/me", nil)
	c.Request = req
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{
		Phone: "221770000099",
		Label: "Paul",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "221770000099")
	assert.Contains(t, w.Body.String(), "Paul")
}

func TestSessionHandlerMeWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&sessionServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/sessions/me", nil)
	c.Request = req

	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandlerSetCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &sessionServiceMock{}
	handler := NewSessionHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/sessions/code", bytes.NewReader([]byte(`{"phone":"221770000099","code":"4321"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SetCode(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4321", mock.codeSet["221770000099"])
}
