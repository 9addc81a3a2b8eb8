package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// ActionRepository reads the declarative action catalog.
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository constructs an ActionRepository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

const actionColumns = `id, name, description, keywords, permissions, params, operations, templates, active, created_at, updated_at`

// ListActive returns the active actions ordered by name.
func (r *ActionRepository) ListActive(ctx context.Context) ([]models.Action, error) {
	query := fmt.Sprintf(`SELECT %s FROM actions WHERE active = true ORDER BY name ASC`, actionColumns)
	var actions []models.Action
	if err := r.db.SelectContext(ctx, &actions, query); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}
