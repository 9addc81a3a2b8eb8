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

// ClasseRepository manages persistence for classes.
type ClasseRepository struct {
	db *sqlx.DB
}

// NewClasseRepository constructs a ClasseRepository.
func NewClasseRepository(db *sqlx.DB) *ClasseRepository {
	return &ClasseRepository{db: db}
}

// List returns classes with their current headcount.
func (r *ClasseRepository) List(ctx context.Context, filter models.ClasseFilter) ([]models.ClasseDetail, int, error) {
	base := `FROM classes c`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.AnneeScolaire != "" {
		conditions = append(conditions, fmt.Sprintf("c.annee_scolaire = $%d", len(args)+1))
		args = append(args, filter.AnneeScolaire)
	}
	if filter.Niveau != "" {
		conditions = append(conditions, fmt.Sprintf("c.niveau = $%d", len(args)+1))
		args = append(args, filter.Niveau)
	}
	if filter.Actif != nil {
		conditions = append(conditions, fmt.Sprintf("c.actif = $%d", len(args)+1))
		args = append(args, *filter.Actif)
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

	query := fmt.Sprintf(`SELECT c.id, c.nom, c.niveau, c.annee_scolaire, c.catechiste, c.actif, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM inscriptions i WHERE i.classe_id = c.id AND i.statut = 'validee') AS effectif_actuel
        %s ORDER BY c.niveau ASC, c.nom ASC LIMIT %d OFFSET %d`, base, size, offset)

	var classes []models.ClasseDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID fetches a class with its headcount.
func (r *ClasseRepository) FindByID(ctx context.Context, id string) (*models.ClasseDetail, error) {
	const query = `SELECT c.id, c.nom, c.niveau, c.annee_scolaire, c.catechiste, c.actif, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM inscriptions i WHERE i.classe_id = c.id AND i.statut = 'validee') AS effectif_actuel
        FROM classes c WHERE c.id = $1`
	var detail models.ClasseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new class.
func (r *ClasseRepository) Create(ctx context.Context, classe *models.Classe) error {
	if classe.ID == "" {
		classe.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if classe.CreatedAt.IsZero() {
		classe.CreatedAt = now
	}
	classe.UpdatedAt = now
	const query = `INSERT INTO classes (id, nom, niveau, annee_scolaire, catechiste, actif, created_at, updated_at)
        VALUES (:id, :nom, :niveau, :annee_scolaire, :catechiste, :actif, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classe); err != nil {
		return fmt.Errorf("create classe: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClasseRepository) Update(ctx context.Context, classe *models.Classe) error {
	classe.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET nom = :nom, niveau = :niveau, annee_scolaire = :annee_scolaire, catechiste = :catechiste, actif = :actif, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, classe); err != nil {
		return fmt.Errorf("update classe: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClasseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete classe: %w", err)
	}
	return nil
}
