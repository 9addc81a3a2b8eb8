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

// RenseignementRepository manages persistence for announcements.
type RenseignementRepository struct {
	db *sqlx.DB
}

// NewRenseignementRepository constructs a RenseignementRepository.
func NewRenseignementRepository(db *sqlx.DB) *RenseignementRepository {
	return &RenseignementRepository{db: db}
}

const renseignementColumns = `id, titre, contenu, categorie, priorite, statut, date_debut, date_fin, created_by, created_at, updated_at`

// List returns announcements matching the provided filters.
func (r *RenseignementRepository) List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error) {
	base := "FROM renseignements"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Categorie != "" {
		conditions = append(conditions, fmt.Sprintf("categorie = $%d", len(args)+1))
		args = append(args, filter.Categorie)
	}
	if filter.Statut != "" {
		conditions = append(conditions, fmt.Sprintf("statut = $%d", len(args)+1))
		args = append(args, filter.Statut)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, fmt.Sprintf("statut = $%d", len(args)+1))
		args = append(args, models.RenseignementStatutActif)
		conditions = append(conditions, "(date_debut IS NULL OR date_debut <= NOW())")
		conditions = append(conditions, "(date_fin IS NULL OR date_fin >= NOW())")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(titre) LIKE $%d OR LOWER(contenu) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	query := fmt.Sprintf(`SELECT %s %s ORDER BY CASE priorite WHEN 'urgente' THEN 0 WHEN 'haute' THEN 1 ELSE 2 END, created_at DESC LIMIT %d OFFSET %d`,
		renseignementColumns, base, size, offset)

	var items []models.Renseignement
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list renseignements: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count renseignements: %w", err)
	}
	return items, total, nil
}

// FindByID fetches one announcement.
func (r *RenseignementRepository) FindByID(ctx context.Context, id string) (*models.Renseignement, error) {
	query := fmt.Sprintf(`SELECT %s FROM renseignements WHERE id = $1`, renseignementColumns)
	var item models.Renseignement
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new announcement.
func (r *RenseignementRepository) Create(ctx context.Context, item *models.Renseignement) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO renseignements (id, titre, contenu, categorie, priorite, statut, date_debut, date_fin, created_by, created_at, updated_at)
        VALUES (:id, :titre, :contenu, :categorie, :priorite, :statut, :date_debut, :date_fin, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create renseignement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *RenseignementRepository) Update(ctx context.Context, item *models.Renseignement) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE renseignements SET titre = :titre, contenu = :contenu, categorie = :categorie, priorite = :priorite, statut = :statut, date_debut = :date_debut, date_fin = :date_fin, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update renseignement: %w", err)
	}
	return nil
}

// SetStatut flips the announcement status.
func (r *RenseignementRepository) SetStatut(ctx context.Context, id string, statut models.RenseignementStatut) error {
	const query = `UPDATE renseignements SET statut = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut, time.Now().UTC()); err != nil {
		return fmt.Errorf("set renseignement statut: %w", err)
	}
	return nil
}

// Delete removes an announcement permanently.
func (r *RenseignementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM renseignements WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete renseignement: %w", err)
	}
	return nil
}
