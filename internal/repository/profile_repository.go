package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// ProfileRepository manages persistence for profiles and phone bindings.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByPhone resolves the active profile bound to a phone number.
// Returns sql.ErrNoRows through sqlx when no binding exists.
func (r *ProfileRepository) FindByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	const query = `SELECT p.id, p.name, p.description, p.permissions, p.active, p.created_at, p.updated_at
        FROM profiles p
        JOIN profile_phones pp ON pp.profile_id = p.id
        WHERE pp.phone = $1 AND p.active = true
        LIMIT 1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, phone); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID fetches one profile.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, name, description, permissions, active, created_at, updated_at FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns every profile ordered by name.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	const query = `SELECT id, name, description, permissions, active, created_at, updated_at FROM profiles ORDER BY name ASC`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// BindPhone attaches a phone number to a profile.
func (r *ProfileRepository) BindPhone(ctx context.Context, profileID, phone string) error {
	binding := models.ProfileBinding{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO profile_phones (id, profile_id, phone, created_at)
        VALUES (:id, :profile_id, :phone, :created_at)
        ON CONFLICT (phone) DO UPDATE SET profile_id = EXCLUDED.profile_id`
	if _, err := r.db.NamedExecContext(ctx, query, binding); err != nil {
		return fmt.Errorf("bind phone: %w", err)
	}
	return nil
}

// UnbindPhone removes a phone binding.
func (r *ProfileRepository) UnbindPhone(ctx context.Context, phone string) error {
	const query = `DELETE FROM profile_phones WHERE phone = $1`
	if _, err := r.db.ExecContext(ctx, query, phone); err != nil {
		return fmt.Errorf("unbind phone: %w", err)
	}
	return nil
}
