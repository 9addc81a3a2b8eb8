package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// InscriptionRepository manages persistence for enrollments.
type InscriptionRepository struct {
	db *sqlx.DB
}

// NewInscriptionRepository constructs an InscriptionRepository.
func NewInscriptionRepository(db *sqlx.DB) *InscriptionRepository {
	return &InscriptionRepository{db: db}
}

// List returns enrollments matching the provided filters.
func (r *InscriptionRepository) List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error) {
	base := `FROM inscriptions i
        JOIN catechumenes c ON c.id = i.catechumene_id
        JOIN classes cl ON cl.id = i.classe_id`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.CatechumeneID != "" {
		conditions = append(conditions, fmt.Sprintf("i.catechumene_id = $%d", len(args)+1))
		args = append(args, filter.CatechumeneID)
	}
	if filter.ClasseID != "" {
		conditions = append(conditions, fmt.Sprintf("i.classe_id = $%d", len(args)+1))
		args = append(args, filter.ClasseID)
	}
	if filter.AnneeScolaire != "" {
		conditions = append(conditions, fmt.Sprintf("i.annee_scolaire = $%d", len(args)+1))
		args = append(args, filter.AnneeScolaire)
	}
	if filter.Statut != "" {
		conditions = append(conditions, fmt.Sprintf("i.statut = $%d", len(args)+1))
		args = append(args, filter.Statut)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT i.id, i.catechumene_id, i.classe_id, i.annee_scolaire, i.statut, i.created_at, i.updated_at,
        c.nom AS catechumene_nom, c.prenom AS catechumene_prenom, cl.nom AS classe_nom
        %s ORDER BY i.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var enrollments []models.InscriptionDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inscriptions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count inscriptions: %w", err)
	}
	return enrollments, total, nil
}

// FindByID fetches one enrollment with joined names.
func (r *InscriptionRepository) FindByID(ctx context.Context, id string) (*models.InscriptionDetail, error) {
	const query = `SELECT i.id, i.catechumene_id, i.classe_id, i.annee_scolaire, i.statut, i.created_at, i.updated_at,
        c.nom AS catechumene_nom, c.prenom AS catechumene_prenom, cl.nom AS classe_nom
        FROM inscriptions i
        JOIN catechumenes c ON c.id = i.catechumene_id
        JOIN classes cl ON cl.id = i.classe_id
        WHERE i.id = $1`
	var detail models.InscriptionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindActiveByCatechumene returns the pending or validated enrollment of a
// student for a school year, if any.
func (r *InscriptionRepository) FindActiveByCatechumene(ctx context.Context, catechumeneID, anneeScolaire string) (*models.Inscription, error) {
	const query = `SELECT id, catechumene_id, classe_id, annee_scolaire, statut, created_at, updated_at
        FROM inscriptions
        WHERE catechumene_id = $1 AND annee_scolaire = $2 AND statut IN ('en_attente', 'validee')
        LIMIT 1`
	var enrollment models.Inscription
	if err := r.db.GetContext(ctx, &enrollment, query, catechumeneID, anneeScolaire); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create inserts a new enrollment.
func (r *InscriptionRepository) Create(ctx context.Context, enrollment *models.Inscription) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	if enrollment.Statut == "" {
		enrollment.Statut = models.InscriptionStatutEnAttente
	}
	const query = `INSERT INTO inscriptions (id, catechumene_id, classe_id, annee_scolaire, statut, created_at, updated_at)
        VALUES (:id, :catechumene_id, :classe_id, :annee_scolaire, :statut, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create inscription: %w", err)
	}
	return nil
}

// UpdateStatut transitions an enrollment to the given status.
func (r *InscriptionRepository) UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) error {
	const query = `UPDATE inscriptions SET statut = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut, time.Now().UTC()); err != nil {
		return fmt.Errorf("update inscription statut: %w", err)
	}
	return nil
}
