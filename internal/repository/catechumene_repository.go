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

// CatechumeneRepository manages persistence for student records.
type CatechumeneRepository struct {
	db *sqlx.DB
}

// NewCatechumeneRepository constructs a CatechumeneRepository.
func NewCatechumeneRepository(db *sqlx.DB) *CatechumeneRepository {
	return &CatechumeneRepository{db: db}
}

// List returns students matching the provided filters.
func (r *CatechumeneRepository) List(ctx context.Context, filter models.CatechumeneFilter) ([]models.CatechumeneDetail, int, error) {
	base := `FROM catechumenes c
        LEFT JOIN inscriptions i ON i.catechumene_id = c.id AND i.statut = $1
        LEFT JOIN classes cl ON cl.id = i.classe_id`
	args := []interface{}{models.InscriptionStatutValidee}
	conditions := []string{"1=1"}

	if filter.ClasseID != "" {
		conditions = append(conditions, fmt.Sprintf("i.classe_id = $%d", len(args)+1))
		args = append(args, filter.ClasseID)
	}
	if filter.Actif != nil {
		conditions = append(conditions, fmt.Sprintf("c.actif = $%d", len(args)+1))
		args = append(args, *filter.Actif)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.nom) LIKE $%d OR LOWER(c.prenom) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"nom":        "c.nom",
		"prenom":     "c.prenom",
		"created_at": "c.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.nom"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT c.id, c.nom, c.prenom, c.date_naissance, c.telephone_tuteur, c.paroisse, c.actif, c.created_at, c.updated_at,
        i.classe_id AS classe_id, cl.nom AS classe_nom, i.statut AS inscription_statut
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.CatechumeneDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list catechumenes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT c.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count catechumenes: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student with the current enrollment.
func (r *CatechumeneRepository) FindByID(ctx context.Context, id string) (*models.CatechumeneDetail, error) {
	const query = `SELECT c.id, c.nom, c.prenom, c.date_naissance, c.telephone_tuteur, c.paroisse, c.actif, c.created_at, c.updated_at,
        i.classe_id AS classe_id, cl.nom AS classe_nom, i.statut AS inscription_statut
        FROM catechumenes c
        LEFT JOIN inscriptions i ON i.catechumene_id = c.id AND i.statut = $2
        LEFT JOIN classes cl ON cl.id = i.classe_id
        WHERE c.id = $1`
	var detail models.CatechumeneDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.InscriptionStatutValidee); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new student record.
func (r *CatechumeneRepository) Create(ctx context.Context, student *models.Catechumene) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO catechumenes (id, nom, prenom, date_naissance, telephone_tuteur, paroisse, actif, created_at, updated_at)
        VALUES (:id, :nom, :prenom, :date_naissance, :telephone_tuteur, :paroisse, :actif, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create catechumene: %w", err)
	}
	return nil
}

// Update modifies an existing student record.
func (r *CatechumeneRepository) Update(ctx context.Context, student *models.Catechumene) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE catechumenes SET nom = :nom, prenom = :prenom, date_naissance = :date_naissance, telephone_tuteur = :telephone_tuteur, paroisse = :paroisse, actif = :actif, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update catechumene: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive.
func (r *CatechumeneRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE catechumenes SET actif = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate catechumene: %w", err)
	}
	return nil
}
