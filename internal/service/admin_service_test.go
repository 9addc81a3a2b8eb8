package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

type renseignementRepoStub struct {
	items   map[string]models.Renseignement
	created []models.Renseignement
}

func newRenseignementRepoStub() *renseignementRepoStub {
	return &renseignementRepoStub{items: map[string]models.Renseignement{}}
}

func (s *renseignementRepoStub) List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error) {
	out := make([]models.Renseignement, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, len(out), nil
}

func (s *renseignementRepoStub) FindByID(ctx context.Context, id string) (*models.Renseignement, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (s *renseignementRepoStub) Create(ctx context.Context, item *models.Renseignement) error {
	if item.ID == "" {
		item.ID = "ren-1"
	}
	s.items[item.ID] = *item
	s.created = append(s.created, *item)
	return nil
}

func (s *renseignementRepoStub) Update(ctx context.Context, item *models.Renseignement) error {
	s.items[item.ID] = *item
	return nil
}

func (s *renseignementRepoStub) SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error {
	item := s.items[id]
	item.Statut = statut
	s.items[id] = item
	return nil
}

func (s *renseignementRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

type allowlistStub struct {
	admins map[string]models.AdminPhone
}

func newAllowlistStub() *allowlistStub {
	return &allowlistStub{admins: map[string]models.AdminPhone{}}
}

func (s *allowlistStub) FindByPhone(ctx context.Context, phone string) (*models.AdminPhone, error) {
	admin, ok := s.admins[phone]
	if !ok || !admin.Active {
		return nil, sql.ErrNoRows
	}
	return &admin, nil
}

func (s *allowlistStub) List(ctx context.Context) ([]models.AdminPhone, error) {
	out := make([]models.AdminPhone, 0, len(s.admins))
	for _, admin := range s.admins {
		if admin.Active {
			out = append(out, admin)
		}
	}
	return out, nil
}

func (s *allowlistStub) Add(ctx context.Context, admin *models.AdminPhone) error {
	admin.Active = true
	s.admins[admin.Phone] = *admin
	return nil
}

func (s *allowlistStub) Remove(ctx context.Context, phone string) error {
	if _, ok := s.admins[phone]; !ok {
		return sql.ErrNoRows
	}
	delete(s.admins, phone)
	return nil
}

type followupRepoStub struct {
	items []models.FollowupItem
	err   error
}

func (s *followupRepoStub) Pending(ctx context.Context, limit int64) ([]models.FollowupItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && int64(len(s.items)) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func newAdminServiceForTest() (*AdminService, *renseignementRepoStub, *allowlistStub) {
	repo := newRenseignementRepoStub()
	allowlist := newAllowlistStub()
	svc := NewAdminService(repo, allowlist, &followupRepoStub{}, []string{"221770000000"}, nil)
	return svc, repo, allowlist
}

func TestAdminServiceIsAdmin(t *testing.T) {
	svc, _, allowlist := newAdminServiceForTest()

	assert.True(t, svc.IsAdmin(context.Background(), "221770000000"))
	assert.False(t, svc.IsAdmin(context.Background(), "221771111111"))

	require.NoError(t, allowlist.Add(context.Background(), &models.AdminPhone{Phone: "221771111111"}))
	assert.True(t, svc.IsAdmin(context.Background(), "221771111111"))
}

func TestAdminServiceAddRenseignement(t *testing.T) {
	svc, repo, _ := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "ajouter renseignement | Horaires | Les cours ont lieu le samedi à 9h | horaires | haute")
	require.True(t, handled)
	assert.Contains(t, reply, "Renseignement créé")

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Horaires", created.Titre)
	assert.Equal(t, "horaires", created.Categorie)
	assert.Equal(t, models.RenseignementPrioriteHaute, created.Priorite)
	assert.Equal(t, models.RenseignementStatutActif, created.Statut)
	assert.Equal(t, "221770000000", created.CreatedBy)
}

func TestAdminServiceAddRenseignementUsage(t *testing.T) {
	svc, repo, _ := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "ajouter renseignement | titre seulement")
	require.True(t, handled)
	assert.Contains(t, reply, "Usage:")
	assert.Empty(t, repo.created)
}

func TestAdminServiceModifierRenseignement(t *testing.T) {
	svc, repo, _ := newAdminServiceForTest()
	repo.items["ren-9"] = models.Renseignement{ID: "ren-9", Titre: "Ancien", Contenu: "x"}

	reply, handled := svc.Handle(context.Background(), "221770000000", "modifier renseignement ren-9 | titre | Nouveau titre")
	require.True(t, handled)
	assert.Contains(t, reply, "mis à jour")
	assert.Equal(t, "Nouveau titre", repo.items["ren-9"].Titre)
}

func TestAdminServiceDesactiverRenseignement(t *testing.T) {
	svc, repo, _ := newAdminServiceForTest()
	repo.items["ren-9"] = models.Renseignement{ID: "ren-9", Statut: models.RenseignementStatutActif}

	_, handled := svc.Handle(context.Background(), "221770000000", "desactiver renseignement ren-9")
	require.True(t, handled)
	assert.Equal(t, models.RenseignementStatutInactif, repo.items["ren-9"].Statut)
}

// "lister admins" must never fall through to a shorter command; the
// table is matched longest prefix first.
func TestAdminServicePrefixCollision(t *testing.T) {
	svc, _, allowlist := newAdminServiceForTest()
	require.NoError(t, allowlist.Add(context.Background(), &models.AdminPhone{Phone: "221772222222", Label: "Marie"}))

	reply, handled := svc.Handle(context.Background(), "221770000000", "lister admins")
	require.True(t, handled)
	assert.Contains(t, reply, "221772222222")
	assert.NotContains(t, reply, "renseignement")
}

func TestAdminServiceAdminLifecycle(t *testing.T) {
	svc, _, allowlist := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "ajouter admin +221 77 333 44 55 | Paul")
	require.True(t, handled)
	assert.Contains(t, reply, "221773334455")
	_, ok := allowlist.admins["221773334455"]
	assert.True(t, ok)

	reply, handled = svc.Handle(context.Background(), "221770000000", "supprimer admin 221773334455")
	require.True(t, handled)
	assert.Contains(t, reply, "supprimé")
	_, ok = allowlist.admins["221773334455"]
	assert.False(t, ok)
}

func TestAdminServiceListFollowups(t *testing.T) {
	followups := &followupRepoStub{items: []models.FollowupItem{
		{Phone: "221774444444", Message: "Mon fils peut-il s'inscrire en CM1 ?", Intent: "inscription", ReceivedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)},
		{Phone: "221775555555", Message: "Rappel pour la réunion", Intent: "autre", ReceivedAt: time.Date(2026, 3, 13, 18, 5, 0, 0, time.UTC)},
	}}
	svc := NewAdminService(newRenseignementRepoStub(), newAllowlistStub(), followups, []string{"221770000000"}, nil)

	reply, handled := svc.Handle(context.Background(), "221770000000", "lister suivis")
	require.True(t, handled)
	assert.Contains(t, reply, "2 demande(s) de suivi")
	assert.Contains(t, reply, "221774444444")
	assert.Contains(t, reply, "Mon fils peut-il s'inscrire en CM1 ?")
	assert.Contains(t, reply, "14/03 10:30")
}

func TestAdminServiceListFollowupsEmpty(t *testing.T) {
	svc, _, _ := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "lister suivis")
	require.True(t, handled)
	assert.Equal(t, "Aucune demande de suivi en attente.", reply)
}

func TestAdminServiceUnknownCommand(t *testing.T) {
	svc, _, _ := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "bonjour, quels sont les horaires ?")
	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestAdminServiceHelp(t *testing.T) {
	svc, _, _ := newAdminServiceForTest()

	reply, handled := svc.Handle(context.Background(), "221770000000", "aide")
	require.True(t, handled)
	for _, line := range []string{"ajouter renseignement", "lister admins", "lister suivis", "desactiver renseignement"} {
		assert.True(t, strings.Contains(reply, line), line)
	}
}
