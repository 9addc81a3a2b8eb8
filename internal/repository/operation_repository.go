package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

// Tables declarative actions may touch. Everything else is rejected
// before any SQL is built.
var allowedOperationTables = map[string]struct{}{
	"renseignements":        {},
	"catechumenes":          {},
	"classes":               {},
	"inscriptions":          {},
	"conversation_messages": {},
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// OperationResult carries the outcome of one executed operation.
type OperationResult struct {
	Rows     []map[string]interface{}
	Affected int64
}

// OperationRepository executes declarative action operations. Parameter
// values are always bound as placeholders; identifiers come from the
// action declaration and are validated against the table whitelist and
// an identifier pattern, never from message text.
type OperationRepository struct {
	db *sqlx.DB
}

// NewOperationRepository constructs an OperationRepository.
func NewOperationRepository(db *sqlx.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// Execute runs a single operation whose field and filter values have
// already been resolved by the caller.
func (r *OperationRepository) Execute(ctx context.Context, op models.ActionOperation) (*OperationResult, error) {
	if _, ok := allowedOperationTables[op.Table]; !ok {
		return nil, appErrors.ErrTableNotAllowed
	}

	switch op.Type {
	case models.OperationSelect:
		return r.runSelect(ctx, op)
	case models.OperationInsert:
		return r.runInsert(ctx, op)
	case models.OperationUpdate:
		return r.runUpdate(ctx, op)
	case models.OperationDelete:
		return r.runDelete(ctx, op)
	default:
		return nil, fmt.Errorf("unsupported operation type %q", op.Type)
	}
}

func (r *OperationRepository) runSelect(ctx context.Context, op models.ActionOperation) (*OperationResult, error) {
	columns := "*"
	if len(op.Columns) > 0 {
		for _, col := range op.Columns {
			if !identifierPattern.MatchString(col) {
				return nil, fmt.Errorf("invalid column %q", col)
			}
		}
		columns = strings.Join(op.Columns, ", ")
	}

	where, args, err := buildWhere(op.Filters, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", columns, op.Table, where)
	if op.OrderBy != "" {
		column, direction, err := parseOrderBy(op.OrderBy)
		if err != nil {
			return nil, err
		}
		query = fmt.Sprintf("%s ORDER BY %s %s", query, column, direction)
	}
	if op.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, op.Limit)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", op.Table, err)
	}
	defer rows.Close()

	result := &OperationResult{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", op.Table, err)
		}
		normalizeRow(row)
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", op.Table, err)
	}
	result.Affected = int64(len(result.Rows))
	return result, nil
}

func (r *OperationRepository) runInsert(ctx context.Context, op models.ActionOperation) (*OperationResult, error) {
	if len(op.Fields) == 0 {
		return nil, fmt.Errorf("insert into %s declares no fields", op.Table)
	}

	columns := sortedKeys(op.Fields)
	placeholders := make([]string, 0, len(columns)+3)
	args := make([]interface{}, 0, len(columns)+3)

	names := make([]string, 0, len(columns)+3)
	for i, col := range columns {
		if !identifierPattern.MatchString(col) {
			return nil, fmt.Errorf("invalid column %q", col)
		}
		names = append(names, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, op.Fields[col])
	}
	if _, ok := op.Fields["id"]; !ok {
		names = append(names, "id")
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, uuid.NewString())
	}
	now := time.Now().UTC()
	for _, col := range []string{"created_at", "updated_at"} {
		if _, ok := op.Fields[col]; !ok {
			names = append(names, col)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, now)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", op.Table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", op.Table, err)
	}
	affected, _ := result.RowsAffected()
	return &OperationResult{Affected: affected}, nil
}

func (r *OperationRepository) runUpdate(ctx context.Context, op models.ActionOperation) (*OperationResult, error) {
	if len(op.Fields) == 0 {
		return nil, fmt.Errorf("update on %s declares no fields", op.Table)
	}
	if len(op.Filters) == 0 {
		return nil, fmt.Errorf("update on %s declares no filters", op.Table)
	}

	assignments := make([]string, 0, len(op.Fields)+1)
	args := make([]interface{}, 0, len(op.Fields)+len(op.Filters)+1)
	for _, col := range sortedKeys(op.Fields) {
		if !identifierPattern.MatchString(col) {
			return nil, fmt.Errorf("invalid column %q", col)
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, op.Fields[col])
	}
	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())

	where, whereArgs, err := buildWhere(op.Filters, len(args)+1)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", op.Table, strings.Join(assignments, ", "), where)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", op.Table, err)
	}
	affected, _ := result.RowsAffected()
	return &OperationResult{Affected: affected}, nil
}

func (r *OperationRepository) runDelete(ctx context.Context, op models.ActionOperation) (*OperationResult, error) {
	if len(op.Filters) == 0 {
		return nil, fmt.Errorf("delete on %s declares no filters", op.Table)
	}

	where, args, err := buildWhere(op.Filters, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("DELETE FROM %s%s", op.Table, where)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("delete from %s: %w", op.Table, err)
	}
	affected, _ := result.RowsAffected()
	return &OperationResult{Affected: affected}, nil
}

func buildWhere(filters map[string]string, firstArg int) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	conditions := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for _, col := range sortedKeys(filters) {
		if !identifierPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid filter column %q", col)
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, firstArg+len(args)))
		args = append(args, filters[col])
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func parseOrderBy(raw string) (string, string, error) {
	parts := strings.Fields(raw)
	if len(parts) == 0 || len(parts) > 2 {
		return "", "", fmt.Errorf("invalid order_by %q", raw)
	}
	column := parts[0]
	if !identifierPattern.MatchString(column) {
		return "", "", fmt.Errorf("invalid order_by column %q", column)
	}
	direction := "ASC"
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC", "DESC":
			direction = strings.ToUpper(parts[1])
		default:
			return "", "", fmt.Errorf("invalid order_by direction %q", parts[1])
		}
	}
	return column, direction, nil
}

// normalizeRow turns []byte cells into strings so template rendering and
// JSON encoding produce readable values.
func normalizeRow(row map[string]interface{}) {
	for key, value := range row {
		if raw, ok := value.([]byte); ok {
			row[key] = string(raw)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
