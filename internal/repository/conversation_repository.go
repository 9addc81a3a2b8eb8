package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// ConversationRepository stores chat history per phone number.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository constructs a ConversationRepository.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Append persists one exchanged message.
func (r *ConversationRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO conversation_messages (id, phone, channel, direction, body, created_at)
        VALUES (:id, :phone, :channel, :direction, :body, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("append conversation message: %w", err)
	}
	return nil
}

// History returns the most recent messages for a phone, oldest first.
func (r *ConversationRepository) History(ctx context.Context, phone string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const query = `SELECT id, phone, channel, direction, body, created_at FROM (
            SELECT id, phone, channel, direction, body, created_at
            FROM conversation_messages
            WHERE phone = $1
            ORDER BY created_at DESC
            LIMIT $2
        ) recent ORDER BY created_at ASC`
	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, phone, limit); err != nil {
		return nil, fmt.Errorf("load conversation history: %w", err)
	}
	return messages, nil
}

// CountSince counts inbound messages received after the given time.
func (r *ConversationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM conversation_messages WHERE direction = 'inbound' AND created_at >= $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return total, nil
}

// ActivePhones counts distinct senders after the given time.
func (r *ConversationRepository) ActivePhones(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(DISTINCT phone) FROM conversation_messages WHERE created_at >= $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("count active phones: %w", err)
	}
	return total, nil
}
