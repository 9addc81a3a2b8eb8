package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

func TestOperationRepositoryRejectsUnknownTable(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	_, err := repo.Execute(context.Background(), models.ActionOperation{
		Type:  models.OperationSelect,
		Table: "admin_phones",
	})
	require.ErrorIs(t, err, appErrors.ErrTableNotAllowed)
}

func TestOperationRepositoryRejectsBadIdentifier(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	_, err := repo.Execute(context.Background(), models.ActionOperation{
		Type:    models.OperationSelect,
		Table:   "classes",
		Columns: []string{"nom; DROP TABLE classes"},
	})
	require.Error(t, err)
}

func TestOperationRepositorySelect(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	rows := sqlmock.NewRows([]string{"nom", "niveau"}).
		AddRow([]byte("CE1-A"), []byte("CE1")).
		AddRow([]byte("CE1-B"), []byte("CE1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT nom, niveau FROM classes WHERE niveau = $1 ORDER BY nom ASC LIMIT 10")).
		WithArgs("CE1").
		WillReturnRows(rows)

	result, err := repo.Execute(context.Background(), models.ActionOperation{
		Type:    models.OperationSelect,
		Table:   "classes",
		Columns: []string{"nom", "niveau"},
		Filters: map[string]string{"niveau": "CE1"},
		OrderBy: "nom asc",
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "CE1-A", result.Rows[0]["nom"])
	require.EqualValues(t, 2, result.Affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepositoryUpdateRequiresFilters(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	_, err := repo.Execute(context.Background(), models.ActionOperation{
		Type:   models.OperationUpdate,
		Table:  "inscriptions",
		Fields: map[string]string{"statut": "validee"},
	})
	require.Error(t, err)
}

func TestOperationRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE inscriptions SET statut = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("validee", sqlmock.AnyArg(), "ins-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := repo.Execute(context.Background(), models.ActionOperation{
		Type:    models.OperationUpdate,
		Table:   "inscriptions",
		Fields:  map[string]string{"statut": "validee"},
		Filters: map[string]string{"id": "ins-1"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
