package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRenseignementRepositoryListActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRenseignementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "titre", "contenu", "categorie", "priorite", "statut", "date_debut", "date_fin", "created_by", "created_at", "updated_at"}).
		AddRow("ren-1", "Reprise des cours", "Les cours reprennent samedi.", "horaires", models.RenseignementPrioriteHaute, models.RenseignementStatutActif, nil, nil, "admin-1", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, titre, contenu, categorie, priorite, statut, date_debut, date_fin, created_by, created_at, updated_at FROM renseignements WHERE 1=1 AND statut = \$1`).
		WithArgs(models.RenseignementStatutActif).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM renseignements WHERE 1=1 AND statut = \$1`).
		WithArgs(models.RenseignementStatutActif).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.RenseignementFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "Reprise des cours", items[0].Titre)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenseignementRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRenseignementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "titre", "contenu", "categorie", "priorite", "statut", "date_debut", "date_fin", "created_by", "created_at", "updated_at"}).
		AddRow("ren-1", "Horaires", "Samedi 9h.", "horaires", models.RenseignementPrioriteNormale, models.RenseignementStatutActif, nil, nil, "admin-1", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, titre, contenu, categorie, priorite, statut, date_debut, date_fin, created_by, created_at, updated_at FROM renseignements WHERE id = $1")).
		WithArgs("ren-1").
		WillReturnRows(rows)

	item, err := repo.FindByID(context.Background(), "ren-1")
	require.NoError(t, err)
	require.Equal(t, "Horaires", item.Titre)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenseignementRepositorySetStatut(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRenseignementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE renseignements SET statut = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("ren-1", models.RenseignementStatutInactif, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStatut(context.Background(), "ren-1", models.RenseignementStatutInactif))
	require.NoError(t, mock.ExpectationsWereMet())
}
