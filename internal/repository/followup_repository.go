package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

const followupListKey = "concierge:followups"

// FollowupRepository holds the Redis list of conversations waiting for a
// human callback. Pushes are best effort: a Redis outage must not block
// the reply to the sender.
type FollowupRepository struct {
	client *redis.Client
}

// NewFollowupRepository constructs a FollowupRepository.
func NewFollowupRepository(client *redis.Client) *FollowupRepository {
	return &FollowupRepository{client: client}
}

// Push appends a followup request to the list.
func (r *FollowupRepository) Push(ctx context.Context, item models.FollowupItem) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal followup item: %w", err)
	}
	if err := r.client.LPush(ctx, followupListKey, payload).Err(); err != nil {
		return fmt.Errorf("push followup item: %w", err)
	}
	return nil
}

// Pending returns the most recent followup requests, newest first.
func (r *FollowupRepository) Pending(ctx context.Context, limit int64) ([]models.FollowupItem, error) {
	if r.client == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	raw, err := r.client.LRange(ctx, followupListKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read followup list: %w", err)
	}
	items := make([]models.FollowupItem, 0, len(raw))
	for _, entry := range raw {
		var item models.FollowupItem
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Length reports the number of pending followup requests.
func (r *FollowupRepository) Length(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	length, err := r.client.LLen(ctx, followupListKey).Result()
	if err != nil {
		return 0, fmt.Errorf("followup list length: %w", err)
	}
	return length, nil
}
