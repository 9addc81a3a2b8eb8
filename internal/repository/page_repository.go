package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// PageRepository manages temporary shareable pages.
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository constructs a PageRepository.
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Create inserts a new temporary page.
func (r *PageRepository) Create(ctx context.Context, page *models.TemporaryPage) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO temporary_pages (id, token, titre, contenu, expires_at, created_by, created_at)
        VALUES (:id, :token, :titre, :contenu, :expires_at, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, page); err != nil {
		return fmt.Errorf("create temporary page: %w", err)
	}
	return nil
}

// FindByToken returns a page that has not yet expired.
func (r *PageRepository) FindByToken(ctx context.Context, token string) (*models.TemporaryPage, error) {
	const query = `SELECT id, token, titre, contenu, expires_at, created_by, created_at
        FROM temporary_pages WHERE token = $1 AND expires_at > $2`
	var page models.TemporaryPage
	if err := r.db.GetContext(ctx, &page, query, token, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeleteExpired removes pages past their expiry.
func (r *PageRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM temporary_pages WHERE expires_at <= $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired pages: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
