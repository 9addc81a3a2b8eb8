package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

const adminHelpText = `Commandes disponibles:
- ajouter renseignement | titre | contenu [| categorie [| priorite]]
- modifier renseignement <id> | champ | valeur
- supprimer renseignement <id>
- activer renseignement <id>
- desactiver renseignement <id>
- lister renseignements
- ajouter admin <telephone> [| nom]
- supprimer admin <telephone>
- lister admins
- lister suivis
- aide`

type adminRenseignementRepo interface {
	List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error)
	FindByID(ctx context.Context, id string) (*models.Renseignement, error)
	Create(ctx context.Context, item *models.Renseignement) error
	Update(ctx context.Context, item *models.Renseignement) error
	SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error
	Delete(ctx context.Context, id string) error
}

type adminAllowlistRepo interface {
	FindByPhone(ctx context.Context, phone string) (*models.AdminPhone, error)
	List(ctx context.Context) ([]models.AdminPhone, error)
	Add(ctx context.Context, admin *models.AdminPhone) error
	Remove(ctx context.Context, phone string) error
}

type adminFollowupRepo interface {
	Pending(ctx context.Context, limit int64) ([]models.FollowupItem, error)
}

type adminCommand struct {
	prefix  string
	handler func(ctx context.Context, phone, rest string) (string, error)
}

// AdminService parses French admin commands from allowlisted phones.
// Commands are matched longest prefix first so that "lister admins"
// never falls through to a shorter "lister" entry.
type AdminService struct {
	renseignements adminRenseignementRepo
	allowlist      adminAllowlistRepo
	followups      adminFollowupRepo
	superAdmins    map[string]struct{}
	commands       []adminCommand
	logger         *zap.Logger
}

// NewAdminService constructs the service. superAdminPhones is the
// bootstrap allowlist from configuration.
func NewAdminService(renseignements adminRenseignementRepo, allowlist adminAllowlistRepo, followups adminFollowupRepo, superAdminPhones []string, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AdminService{
		renseignements: renseignements,
		allowlist:      allowlist,
		followups:      followups,
		superAdmins:    make(map[string]struct{}, len(superAdminPhones)),
		logger:         logger,
	}
	for _, phone := range superAdminPhones {
		if phone = strings.TrimSpace(phone); phone != "" {
			s.superAdmins[phone] = struct{}{}
		}
	}
	s.commands = []adminCommand{
		{"ajouter renseignement", s.addRenseignement},
		{"modifier renseignement", s.editRenseignement},
		{"supprimer renseignement", s.deleteRenseignement},
		{"activer renseignement", s.activateRenseignement},
		{"desactiver renseignement", s.deactivateRenseignement},
		{"lister renseignements", s.listRenseignements},
		{"ajouter admin", s.addAdmin},
		{"supprimer admin", s.removeAdmin},
		{"lister admins", s.listAdmins},
		{"lister suivis", s.listFollowups},
		{"aide", s.help},
	}
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
	return s
}

// IsAdmin reports whether the phone may issue admin commands, either
// from configuration or from the stored allowlist.
func (s *AdminService) IsAdmin(ctx context.Context, phone string) bool {
	if _, ok := s.superAdmins[phone]; ok {
		return true
	}
	if s.allowlist == nil {
		return false
	}
	if _, err := s.allowlist.FindByPhone(ctx, phone); err == nil {
		return true
	}
	return false
}

// Handle parses and executes one admin command. The second return value
// is false when the text matches no command; the router then falls
// through to the next tier.
func (s *AdminService) Handle(ctx context.Context, phone, text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)
	for _, cmd := range s.commands {
		if normalized != cmd.prefix && !strings.HasPrefix(normalized, cmd.prefix+" ") {
			continue
		}
		rest := strings.TrimSpace(trimmed[len(cmd.prefix):])
		reply, err := cmd.handler(ctx, phone, rest)
		if err != nil {
			s.logger.Error("admin command failed",
				zap.String("command", cmd.prefix),
				zap.String("phone", phone),
				zap.Error(err))
			return "Erreur lors de l'exécution de la commande. Réessayez ou tapez 'aide'.", true
		}
		return reply, true
	}
	return "", false
}

func (s *AdminService) help(_ context.Context, _, _ string) (string, error) {
	return adminHelpText, nil
}

func (s *AdminService) addRenseignement(ctx context.Context, phone, rest string) (string, error) {
	parts := splitPipe(rest)
	if len(parts) < 2 {
		return "Usage: ajouter renseignement | titre | contenu [| categorie [| priorite]]", nil
	}
	item := &models.Renseignement{
		Titre:     parts[0],
		Contenu:   parts[1],
		Categorie: "general",
		Priorite:  models.RenseignementPrioriteNormale,
		Statut:    models.RenseignementStatutActif,
		CreatedBy: phone,
	}
	if len(parts) >= 3 && parts[2] != "" {
		item.Categorie = parts[2]
	}
	if len(parts) >= 4 && parts[3] != "" {
		priorite := models.RenseignementPriorite(strings.ToLower(parts[3]))
		switch priorite {
		case models.RenseignementPrioriteNormale, models.RenseignementPrioriteHaute, models.RenseignementPrioriteUrgente:
			item.Priorite = priorite
		default:
			return "Priorité invalide: utilisez normale, haute ou urgente.", nil
		}
	}
	if err := s.renseignements.Create(ctx, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Renseignement créé (id %s): %s", item.ID, item.Titre), nil
}

func (s *AdminService) editRenseignement(ctx context.Context, _, rest string) (string, error) {
	// id precedes the first pipe: "modifier renseignement <id> | champ | valeur"
	head, tail, found := strings.Cut(rest, "|")
	id := strings.TrimSpace(head)
	if !found || id == "" {
		return "Usage: modifier renseignement <id> | champ | valeur", nil
	}
	parts := splitPipe(tail)
	if len(parts) < 2 {
		return "Usage: modifier renseignement <id> | champ | valeur", nil
	}
	field, value := strings.ToLower(parts[0]), parts[1]

	item, err := s.renseignements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Sprintf("Renseignement %s introuvable.", id), nil
		}
		return "", err
	}
	switch field {
	case "titre":
		item.Titre = value
	case "contenu":
		item.Contenu = value
	case "categorie":
		item.Categorie = value
	case "priorite":
		priorite := models.RenseignementPriorite(strings.ToLower(value))
		switch priorite {
		case models.RenseignementPrioriteNormale, models.RenseignementPrioriteHaute, models.RenseignementPrioriteUrgente:
			item.Priorite = priorite
		default:
			return "Priorité invalide: utilisez normale, haute ou urgente.", nil
		}
	default:
		return "Champ inconnu: utilisez titre, contenu, categorie ou priorite.", nil
	}
	if err := s.renseignements.Update(ctx, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Renseignement %s mis à jour.", id), nil
}

func (s *AdminService) deleteRenseignement(ctx context.Context, _, rest string) (string, error) {
	id := strings.TrimSpace(rest)
	if id == "" {
		return "Usage: supprimer renseignement <id>", nil
	}
	if err := s.renseignements.Delete(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Renseignement %s supprimé.", id), nil
}

func (s *AdminService) activateRenseignement(ctx context.Context, _, rest string) (string, error) {
	return s.setRenseignementStatut(ctx, rest, models.RenseignementStatutActif, "activé")
}

func (s *AdminService) deactivateRenseignement(ctx context.Context, _, rest string) (string, error) {
	return s.setRenseignementStatut(ctx, rest, models.RenseignementStatutInactif, "désactivé")
}

func (s *AdminService) setRenseignementStatut(ctx context.Context, rest string, statut models.RenseignementStatut, label string) (string, error) {
	id := strings.TrimSpace(rest)
	if id == "" {
		return fmt.Sprintf("Usage: %s renseignement <id>", map[models.RenseignementStatut]string{
			models.RenseignementStatutActif:   "activer",
			models.RenseignementStatutInactif: "desactiver",
		}[statut]), nil
	}
	if err := s.renseignements.SetStatut(ctx, id, statut); err != nil {
		return "", err
	}
	return fmt.Sprintf("Renseignement %s %s.", id, label), nil
}

func (s *AdminService) listRenseignements(ctx context.Context, _, _ string) (string, error) {
	items, total, err := s.renseignements.List(ctx, models.RenseignementFilter{PageSize: 20})
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "Aucun renseignement enregistré.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d renseignement(s):\n", total)
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s (%s, %s, %s)\n", item.ID, item.Titre, item.Categorie, item.Priorite, item.Statut)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *AdminService) addAdmin(ctx context.Context, _, rest string) (string, error) {
	parts := splitPipe(rest)
	if len(parts) == 0 || parts[0] == "" {
		return "Usage: ajouter admin <telephone> [| nom]", nil
	}
	admin := &models.AdminPhone{Phone: normalizePhone(parts[0])}
	if len(parts) >= 2 {
		admin.Label = parts[1]
	}
	if err := s.allowlist.Add(ctx, admin); err != nil {
		return "", err
	}
	return fmt.Sprintf("Admin %s ajouté.", admin.Phone), nil
}

func (s *AdminService) removeAdmin(ctx context.Context, _, rest string) (string, error) {
	phone := normalizePhone(strings.TrimSpace(rest))
	if phone == "" {
		return "Usage: supprimer admin <telephone>", nil
	}
	if err := s.allowlist.Remove(ctx, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Sprintf("Admin %s introuvable.", phone), nil
		}
		return "", err
	}
	return fmt.Sprintf("Admin %s supprimé.", phone), nil
}

func (s *AdminService) listAdmins(ctx context.Context, _, _ string) (string, error) {
	admins, err := s.allowlist.List(ctx)
	if err != nil {
		return "", err
	}
	if len(admins) == 0 {
		return "Aucun admin enregistré.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d admin(s):\n", len(admins))
	for _, admin := range admins {
		label := admin.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(&b, "- %s (%s)\n", admin.Phone, label)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *AdminService) listFollowups(ctx context.Context, _, _ string) (string, error) {
	if s.followups == nil {
		return "Liste de suivi indisponible.", nil
	}
	items, err := s.followups.Pending(ctx, 20)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "Aucune demande de suivi en attente.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d demande(s) de suivi:\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s): %s\n", item.Phone, item.ReceivedAt.Format("02/01 15:04"), item.Message)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func splitPipe(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	// drop a leading empty segment from "ajouter renseignement | titre"
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	return parts
}

// normalizePhone strips formatting characters so allowlist matching
// works on digits only.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
