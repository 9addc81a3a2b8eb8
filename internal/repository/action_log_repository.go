package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// ActionLogRepository persists action execution audit records.
type ActionLogRepository struct {
	db *sqlx.DB
}

// NewActionLogRepository constructs an ActionLogRepository.
func NewActionLogRepository(db *sqlx.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// Create inserts a new audit row, usually in pending status.
func (r *ActionLogRepository) Create(ctx context.Context, log *models.ActionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	log.UpdatedAt = now
	const query = `INSERT INTO action_logs (id, profile_id, phone, action_id, parameters, status, response, execution_ms, created_at, updated_at)
        VALUES (:id, :profile_id, :phone, :action_id, :parameters, :status, :response, :execution_ms, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create action log: %w", err)
	}
	return nil
}

// UpdateStatus finalizes an audit row with its outcome.
func (r *ActionLogRepository) UpdateStatus(ctx context.Context, id string, status models.ActionLogStatus, response string, executionMs int64) error {
	const query = `UPDATE action_logs SET status = $2, response = $3, execution_ms = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, response, executionMs, time.Now().UTC()); err != nil {
		return fmt.Errorf("update action log: %w", err)
	}
	return nil
}

// CountByStatus aggregates audit rows per status.
func (r *ActionLogRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM action_logs GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count action logs: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// RecentByPhone lists the latest executions for a phone.
func (r *ActionLogRepository) RecentByPhone(ctx context.Context, phone string, limit int) ([]models.ActionLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, profile_id, phone, action_id, parameters, status, response, execution_ms, created_at, updated_at
        FROM action_logs WHERE phone = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var logs []models.ActionLog
	if err := r.db.SelectContext(ctx, &logs, query, phone); err != nil {
		return nil, fmt.Errorf("recent action logs: %w", err)
	}
	return logs, nil
}
