package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ActionLogStatus tracks the lifecycle of one action execution.
type ActionLogStatus string

const (
	ActionLogStatusPending ActionLogStatus = "pending"
	ActionLogStatusSuccess ActionLogStatus = "success"
	ActionLogStatusError   ActionLogStatus = "error"
)

// JSONMap is a JSONB-backed free-form object column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(JSONMap{})
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error { return scanJSON(src, m) }

// ActionLog is the audit record of one action execution.
type ActionLog struct {
	ID          string          `db:"id" json:"id"`
	ProfileID   string          `db:"profile_id" json:"profile_id"`
	Phone       string          `db:"phone" json:"phone"`
	ActionID    string          `db:"action_id" json:"action_id"`
	Parameters  JSONMap         `db:"parameters" json:"parameters"`
	Status      ActionLogStatus `db:"status" json:"status"`
	Response    string          `db:"response" json:"response"`
	ExecutionMs int64           `db:"execution_ms" json:"execution_ms"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
