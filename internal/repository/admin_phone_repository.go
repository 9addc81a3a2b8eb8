package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// AdminPhoneRepository manages the admin allowlist.
type AdminPhoneRepository struct {
	db *sqlx.DB
}

// NewAdminPhoneRepository constructs an AdminPhoneRepository.
func NewAdminPhoneRepository(db *sqlx.DB) *AdminPhoneRepository {
	return &AdminPhoneRepository{db: db}
}

// FindByPhone returns the active allowlist entry for a phone.
func (r *AdminPhoneRepository) FindByPhone(ctx context.Context, phone string) (*models.AdminPhone, error) {
	const query = `SELECT id, phone, label, code_hash, active, created_at FROM admin_phones WHERE phone = $1 AND active = true`
	var admin models.AdminPhone
	if err := r.db.GetContext(ctx, &admin, query, phone); err != nil {
		return nil, err
	}
	return &admin, nil
}

// List returns all active allowlist entries.
func (r *AdminPhoneRepository) List(ctx context.Context) ([]models.AdminPhone, error) {
	const query = `SELECT id, phone, label, code_hash, active, created_at FROM admin_phones WHERE active = true ORDER BY created_at ASC`
	var admins []models.AdminPhone
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admin phones: %w", err)
	}
	return admins, nil
}

// Add inserts or reactivates an allowlist entry.
func (r *AdminPhoneRepository) Add(ctx context.Context, admin *models.AdminPhone) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	admin.Active = true
	const query = `INSERT INTO admin_phones (id, phone, label, code_hash, active, created_at)
        VALUES (:id, :phone, :label, :code_hash, :active, :created_at)
        ON CONFLICT (phone) DO UPDATE SET label = EXCLUDED.label, active = true`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("add admin phone: %w", err)
	}
	return nil
}

// SetCodeHash stores the bcrypt hash of an admin login code.
func (r *AdminPhoneRepository) SetCodeHash(ctx context.Context, phone, hash string) error {
	const query = `UPDATE admin_phones SET code_hash = $2 WHERE phone = $1 AND active = true`
	if _, err := r.db.ExecContext(ctx, query, phone, hash); err != nil {
		return fmt.Errorf("set admin code hash: %w", err)
	}
	return nil
}

// Remove deactivates an allowlist entry.
func (r *AdminPhoneRepository) Remove(ctx context.Context, phone string) error {
	const query = `UPDATE admin_phones SET active = false WHERE phone = $1`
	result, err := r.db.ExecContext(ctx, query, phone)
	if err != nil {
		return fmt.Errorf("remove admin phone: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
