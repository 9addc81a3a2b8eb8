package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/repository"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type actionCatalogStub struct {
	actions []models.Action
	err     error
}

func (s *actionCatalogStub) ListActive(ctx context.Context) ([]models.Action, error) {
	return s.actions, s.err
}

type runnerStub struct {
	results  []*repository.OperationResult
	err      error
	executed []models.ActionOperation
}

func (s *runnerStub) Execute(ctx context.Context, op models.ActionOperation) (*repository.OperationResult, error) {
	s.executed = append(s.executed, op)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return &repository.OperationResult{}, nil
	}
	result := s.results[0]
	s.results = s.results[1:]
	return result, nil
}

type auditStub struct {
	created  []*models.ActionLog
	statuses []models.ActionLogStatus
}

func (s *auditStub) Create(ctx context.Context, log *models.ActionLog) error {
	log.ID = "log-1"
	s.created = append(s.created, log)
	return nil
}

func (s *auditStub) UpdateStatus(ctx context.Context, id string, status models.ActionLogStatus, response string, executionMs int64) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func searchAction() models.Action {
	return models.Action{
		ID:          "act-search",
		Name:        "recherche_catechumene",
		Keywords:    []string{"rechercher", "chercher"},
		Permissions: []string{models.PermissionRechercheCatechumene},
		Params: models.ActionParams{
			{Name: "nom", Type: models.ParamTypeString, Required: true},
		},
		Operations: models.ActionOperations{
			{
				Type:    models.OperationSelect,
				Table:   "catechumenes",
				Columns: []string{"nom", "prenom"},
				Filters: map[string]string{"nom": "{nom}"},
			},
		},
		Templates: models.ResponseTemplates{
			Empty:    "Aucun catéchumène trouvé pour {nom}.",
			Single:   "Trouvé: {prenom} {nom}.",
			Multiple: "{count} résultats:\n{items}",
			ItemLine: "- {prenom} {nom}",
		},
		Active: true,
	}
}

func parentProfile() *models.Profile {
	return &models.Profile{
		ID:          "prof-1",
		Name:        "parent",
		Permissions: []string{models.PermissionRechercheCatechumene},
		Active:      true,
	}
}

func TestActionServiceMatchLongestKeywordWins(t *testing.T) {
	short := models.Action{ID: "act-list", Keywords: []string{"liste"}, Active: true}
	long := models.Action{ID: "act-list-classes", Keywords: []string{"liste classes"}, Active: true}
	catalog := &actionCatalogStub{actions: []models.Action{short, long}}
	svc := NewActionService(catalog, &runnerStub{}, &auditStub{}, nil, nil)

	action, _, err := svc.Match(context.Background(), "liste classes CE1")
	require.NoError(t, err)
	assert.Equal(t, "act-list-classes", action.ID)

	action, _, err = svc.Match(context.Background(), "liste")
	require.NoError(t, err)
	assert.Equal(t, "act-list", action.ID)
}

func TestActionServiceMatchExtractsParams(t *testing.T) {
	catalog := &actionCatalogStub{actions: []models.Action{searchAction()}}
	svc := NewActionService(catalog, &runnerStub{}, &auditStub{}, nil, nil)

	action, raw, err := svc.Match(context.Background(), "rechercher Diop")
	require.NoError(t, err)
	assert.Equal(t, "act-search", action.ID)
	assert.Equal(t, "Diop", raw["nom"])
}

func TestActionServiceMatchKeywordCaseInsensitiveParamsKeepCase(t *testing.T) {
	catalog := &actionCatalogStub{actions: []models.Action{searchAction()}}
	svc := NewActionService(catalog, &runnerStub{}, &auditStub{}, nil, nil)

	// Keyword matching ignores case, parameter values must not.
	_, raw, err := svc.Match(context.Background(), "RECHERCHER Ndiaye Fall")
	require.NoError(t, err)
	assert.Equal(t, "Ndiaye Fall", raw["nom"])
}

func TestActionServiceExecuteForPhonePreservesParamCase(t *testing.T) {
	catalog := &actionCatalogStub{actions: []models.Action{searchAction()}}
	runner := &runnerStub{results: []*repository.OperationResult{{
		Rows:     []map[string]interface{}{{"nom": "Diop", "prenom": "Awa"}},
		Affected: 1,
	}}}
	svc := NewActionService(catalog, runner, &auditStub{}, nil, nil)

	reply, err := svc.ExecuteForPhone(context.Background(), parentProfile(), "221770000001", "rechercher Diop")
	require.NoError(t, err)
	assert.Equal(t, "Trouvé: Awa Diop.", reply)

	// The filter bound against the database keeps the sender's casing.
	require.Len(t, runner.executed, 1)
	assert.Equal(t, "Diop", runner.executed[0].Filters["nom"])
}

func TestActionServiceMatchNoKeyword(t *testing.T) {
	catalog := &actionCatalogStub{actions: []models.Action{searchAction()}}
	svc := NewActionService(catalog, &runnerStub{}, &auditStub{}, nil, nil)

	_, _, err := svc.Match(context.Background(), "bonjour")
	require.ErrorIs(t, err, appErrors.ErrActionNotFound)
}

func TestActionServiceExecuteSingleResult(t *testing.T) {
	action := searchAction()
	runner := &runnerStub{results: []*repository.OperationResult{{
		Rows:     []map[string]interface{}{{"nom": "Diop", "prenom": "Awa"}},
		Affected: 1,
	}}}
	audit := &auditStub{}
	svc := NewActionService(&actionCatalogStub{}, runner, audit, nil, nil)

	reply, err := svc.Execute(context.Background(), parentProfile(), &action, map[string]string{"nom": "diop"})
	require.NoError(t, err)
	assert.Equal(t, "Trouvé: Awa Diop.", reply)

	require.Len(t, runner.executed, 1)
	assert.Equal(t, "diop", runner.executed[0].Filters["nom"])
	require.Len(t, audit.statuses, 1)
	assert.Equal(t, models.ActionLogStatusSuccess, audit.statuses[0])
}

func TestActionServiceExecuteMultipleResults(t *testing.T) {
	action := searchAction()
	runner := &runnerStub{results: []*repository.OperationResult{{
		Rows: []map[string]interface{}{
			{"nom": "Diop", "prenom": "Awa"},
			{"nom": "Diop", "prenom": "Moussa"},
		},
		Affected: 2,
	}}}
	svc := NewActionService(&actionCatalogStub{}, runner, &auditStub{}, nil, nil)

	reply, err := svc.Execute(context.Background(), parentProfile(), &action, map[string]string{"nom": "diop"})
	require.NoError(t, err)
	assert.Equal(t, "2 résultats:\n- Awa Diop\n- Moussa Diop", reply)
}

func TestActionServiceExecuteEmptyResult(t *testing.T) {
	action := searchAction()
	runner := &runnerStub{results: []*repository.OperationResult{{}}}
	svc := NewActionService(&actionCatalogStub{}, runner, &auditStub{}, nil, nil)

	reply, err := svc.Execute(context.Background(), parentProfile(), &action, map[string]string{"nom": "diop"})
	require.NoError(t, err)
	assert.Equal(t, "Aucun catéchumène trouvé pour diop.", reply)
}

func TestActionServiceExecuteMissingRequiredParam(t *testing.T) {
	action := searchAction()
	svc := NewActionService(&actionCatalogStub{}, &runnerStub{}, &auditStub{}, nil, nil)

	_, err := svc.Execute(context.Background(), parentProfile(), &action, map[string]string{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestActionServiceExecutePermissionDenied(t *testing.T) {
	action := searchAction()
	profile := &models.Profile{ID: "prof-2", Name: "visiteur", Permissions: []string{}}
	runner := &runnerStub{}
	svc := NewActionService(&actionCatalogStub{}, runner, &auditStub{}, nil, nil)

	_, err := svc.Execute(context.Background(), profile, &action, map[string]string{"nom": "diop"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErr.Code)
	assert.Empty(t, runner.executed)
}

func TestActionServiceExecuteOperationFailureAborts(t *testing.T) {
	action := searchAction()
	action.Operations = append(action.Operations, models.ActionOperation{
		Type:  models.OperationSelect,
		Table: "classes",
	})
	runner := &runnerStub{err: assert.AnError}
	audit := &auditStub{}
	svc := NewActionService(&actionCatalogStub{}, runner, audit, nil, nil)

	reply, err := svc.Execute(context.Background(), parentProfile(), &action, map[string]string{"nom": "diop"})
	require.Error(t, err)
	assert.Equal(t, actionErrorReply, reply)
	assert.Len(t, runner.executed, 1)
	require.Len(t, audit.statuses, 1)
	assert.Equal(t, models.ActionLogStatusError, audit.statuses[0])
}

func TestCoerceParamsDefaultsAndTypes(t *testing.T) {
	def := "10"
	declared := models.ActionParams{
		{Name: "limite", Type: models.ParamTypeInteger, Default: &def},
		{Name: "actif", Type: models.ParamTypeBoolean},
	}

	params, err := coerceParams(declared, map[string]string{"actif": "oui"})
	require.NoError(t, err)
	assert.Equal(t, "10", params["limite"])
	assert.Equal(t, "true", params["actif"])

	_, err = coerceParams(declared, map[string]string{"limite": "abc"})
	require.Error(t, err)
}
