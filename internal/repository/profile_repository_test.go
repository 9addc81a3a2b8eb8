package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

func TestProfileRepositoryFindByPhone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "permissions", "active", "created_at", "updated_at"}).
		AddRow("prof-1", "parent", "Parent d'un catechumene", "{recherche_catechumene,voir_renseignements}", true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT p.id, p.name, p.description, p.permissions, p.active, p.created_at, p.updated_at\s+FROM profiles p\s+JOIN profile_phones pp ON pp.profile_id = p.id`).
		WithArgs("221770000001").
		WillReturnRows(rows)

	profile, err := repo.FindByPhone(context.Background(), "221770000001")
	require.NoError(t, err)
	require.Equal(t, "parent", profile.Name)
	require.True(t, profile.HasPermission(models.PermissionVoirRenseignements))
	require.False(t, profile.HasPermission(models.PermissionGererInscriptions))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryFindByPhoneNotBound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT p.id, p.name, p.description, p.permissions, p.active, p.created_at, p.updated_at`).
		WithArgs("221779999999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByPhone(context.Background(), "221779999999")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryBindPhone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profile_phones")).
		WithArgs(sqlmock.AnyArg(), "prof-1", "221770000001", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.BindPhone(context.Background(), "prof-1", "221770000001"))
	require.NoError(t, mock.ExpectationsWereMet())
}
