package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/middleware"
	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type renseignementServiceMock struct {
	listResp   []models.Renseignement
	getResp    *models.Renseignement
	getErr     error
	created    *service.CreateRenseignementRequest
	lastFilter service.RenseignementListRequest
}

func (m *renseignementServiceMock) List(ctx context.Context, req service.RenseignementListRequest) ([]models.Renseignement, *models.Pagination, error) {
	m.lastFilter = req
	return m.listResp, &models.Pagination{Page: req.Page, PageSize: req.PageSize, TotalCount: len(m.listResp)}, nil
}

func (m *renseignementServiceMock) Get(ctx context.Context, id string) (*models.Renseignement, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *renseignementServiceMock) Create(ctx context.Context, req service.CreateRenseignementRequest) (*models.Renseignement, error) {
	m.created = &req
	return &models.Renseignement{ID: "r1", Titre: req.Titre, Contenu: req.Contenu}, nil
}

func (m *renseignementServiceMock) Update(ctx context.Context, id string, req service.UpdateRenseignementRequest) (*models.Renseignement, error) {
	return &models.Renseignement{ID: id, Titre: req.Titre, Contenu: req.Contenu}, nil
}

func (m *renseignementServiceMock) SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error {
	return nil
}

func (m *renseignementServiceMock) Delete(ctx context.Context, id string) error { return nil }

func TestRenseignementHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &renseignementServiceMock{}
	handler := NewRenseignementHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/renseignements?categorie=horaires&active_only=true&page=2&page_size=5", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "horaires", mock.lastFilter.Categorie)
	assert.True(t, mock.lastFilter.ActiveOnly)
	assert.Equal(t, 2, mock.lastFilter.Page)
	assert.Equal(t, 5, mock.lastFilter.PageSize)
}

func TestRenseignementHandlerCreateFillsCreatedByFromSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &renseignementServiceMock{}
	handler := NewRenseignementHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]string{"titre": "Horaires", "contenu": "Samedi 9h"})
	req, _ := http.NewRequest(http.MethodPost, "/renseignements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{Phone: "221770000099", Label: "Paul"})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, "221770000099", mock.created.CreatedBy)
}

func TestRenseignementHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRenseignementHandler(&renseignementServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/renseignements", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenseignementHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRenseignementHandler(&renseignementServiceMock{
		getErr: appErrors.Clone(appErrors.ErrNotFound, "renseignement not found"),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/renseignements/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
