package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/internal/repository"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

const (
	actionCatalogCacheKey = "concierge:actions:active"
	actionCatalogCacheTTL = 5 * time.Minute
)

// Generic reply when an action blows up mid-execution. Details stay in
// the audit log, never in the chat.
const actionErrorReply = "Désolé, une erreur est survenue lors du traitement de votre demande. Veuillez réessayer plus tard."

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

type actionCatalog interface {
	ListActive(ctx context.Context) ([]models.Action, error)
}

type operationRunner interface {
	Execute(ctx context.Context, op models.ActionOperation) (*repository.OperationResult, error)
}

type actionAudit interface {
	Create(ctx context.Context, log *models.ActionLog) error
	UpdateStatus(ctx context.Context, id string, status models.ActionLogStatus, response string, executionMs int64) error
}

type actionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ActionService matches inbound messages against the declarative action
// catalog and executes the matched action for a profile.
type ActionService struct {
	catalog actionCatalog
	runner  operationRunner
	audit   actionAudit
	cache   actionCache
	logger  *zap.Logger
}

// NewActionService constructs the service. cache may be nil.
func NewActionService(catalog actionCatalog, runner operationRunner, audit actionAudit, cache actionCache, logger *zap.Logger) *ActionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionService{catalog: catalog, runner: runner, audit: audit, cache: cache, logger: logger}
}

// Match finds the action whose keyword prefixes the message. Keywords are
// tried longest first so that "liste classes" wins over "liste" when both
// exist in the catalog. Returns the raw parameter values split on "|"
// from the text following the keyword, mapped positionally onto the
// action's declared parameters.
func (s *ActionService) Match(ctx context.Context, text string) (*models.Action, map[string]string, error) {
	actions, err := s.activeActions(ctx)
	if err != nil {
		return nil, nil, err
	}

	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)

	type candidate struct {
		action  models.Action
		keyword string
	}
	var candidates []candidate
	for _, action := range actions {
		for _, keyword := range action.Keywords {
			kw := strings.ToLower(strings.TrimSpace(keyword))
			if kw == "" {
				continue
			}
			if normalized == kw || strings.HasPrefix(normalized, kw+" ") {
				candidates = append(candidates, candidate{action: action, keyword: kw})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil, appErrors.ErrActionNotFound
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].keyword) > len(candidates[j].keyword)
	})

	best := candidates[0]
	// Slice from the original text so parameter values keep their case;
	// only the keyword comparison is case-insensitive.
	remainder := strings.TrimSpace(trimmed[len(best.keyword):])
	raw := map[string]string{}
	if remainder != "" && len(best.action.Params) > 0 {
		parts := strings.Split(remainder, "|")
		for i, param := range best.action.Params {
			if i >= len(parts) {
				break
			}
			raw[param.Name] = strings.TrimSpace(parts[i])
		}
	}
	return &best.action, raw, nil
}

// Execute validates parameters, checks permissions, runs the declared
// operations in order and renders the reply from the matching template.
// The audit row is written as pending up front and finalized with the
// outcome; a failing operation aborts the remaining ones without
// rolling back those already applied.
func (s *ActionService) Execute(ctx context.Context, profile *models.Profile, action *models.Action, raw map[string]string) (string, error) {
	return s.executeWithPhone(ctx, profile, "", action, raw)
}

// ExecuteForPhone resolves + runs in one call, stamping the audit row
// with the sender phone.
func (s *ActionService) ExecuteForPhone(ctx context.Context, profile *models.Profile, phone, text string) (string, error) {
	action, raw, err := s.Match(ctx, text)
	if err != nil {
		return "", err
	}
	reply, err := s.executeWithPhone(ctx, profile, phone, action, raw)
	return reply, err
}

func (s *ActionService) executeWithPhone(ctx context.Context, profile *models.Profile, phone string, action *models.Action, raw map[string]string) (string, error) {
	params, err := coerceParams(action.Params, raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	for _, required := range action.Permissions {
		if !profile.HasPermission(required) {
			return "", appErrors.Clone(appErrors.ErrPermissionDenied, fmt.Sprintf("permission %s requise", required))
		}
	}

	auditRow := &models.ActionLog{
		ProfileID:  profile.ID,
		Phone:      phone,
		ActionID:   action.ID,
		Parameters: toJSONMap(params),
		Status:     models.ActionLogStatusPending,
	}
	if err := s.audit.Create(ctx, auditRow); err != nil {
		s.logger.Warn("action audit create failed", zap.String("action", action.ID), zap.Error(err))
	}

	started := time.Now()
	var last *repository.OperationResult
	for i, op := range action.Operations {
		resolved := substituteOperation(op, params)
		result, err := s.runner.Execute(ctx, resolved)
		if err != nil {
			s.logger.Error("action operation failed",
				zap.String("action", action.ID),
				zap.Int("operation", i),
				zap.String("table", op.Table),
				zap.Error(err))
			s.finalizeAudit(ctx, auditRow.ID, models.ActionLogStatusError, err.Error(), started)
			return actionErrorReply, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "action execution failed")
		}
		last = result
	}

	reply := renderTemplates(action.Templates, params, last)
	s.finalizeAudit(ctx, auditRow.ID, models.ActionLogStatusSuccess, reply, started)
	return reply, nil
}

func (s *ActionService) finalizeAudit(ctx context.Context, id string, status models.ActionLogStatus, response string, started time.Time) {
	if id == "" {
		return
	}
	elapsed := time.Since(started).Milliseconds()
	if err := s.audit.UpdateStatus(ctx, id, status, response, elapsed); err != nil {
		s.logger.Warn("action audit update failed", zap.String("log", id), zap.Error(err))
	}
}

func (s *ActionService) activeActions(ctx context.Context) ([]models.Action, error) {
	if s.cache != nil {
		var cached []models.Action
		if err := s.cache.Get(ctx, actionCatalogCacheKey, &cached); err == nil {
			return cached, nil
		}
	}
	actions, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load action catalog")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, actionCatalogCacheKey, actions, actionCatalogCacheTTL); err != nil {
			s.logger.Debug("action catalog cache set failed", zap.Error(err))
		}
	}
	return actions, nil
}

// coerceParams validates raw values against the declared parameters.
// Values stay strings after validation since they substitute into
// operation templates textually.
func coerceParams(declared models.ActionParams, raw map[string]string) (map[string]string, error) {
	params := make(map[string]string, len(declared))
	for _, decl := range declared {
		value, ok := raw[decl.Name]
		if !ok || value == "" {
			if decl.Default != nil {
				params[decl.Name] = *decl.Default
				continue
			}
			if decl.Required {
				return nil, fmt.Errorf("paramètre requis manquant: %s", decl.Name)
			}
			continue
		}
		switch decl.Type {
		case models.ParamTypeInteger:
			if _, err := strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("paramètre %s doit être un nombre", decl.Name)
			}
		case models.ParamTypeBoolean:
			switch strings.ToLower(value) {
			case "true", "oui":
				value = "true"
			case "false", "non":
				value = "false"
			default:
				return nil, fmt.Errorf("paramètre %s doit être oui/non", decl.Name)
			}
		case models.ParamTypeString, "":
			// free text
		default:
			return nil, fmt.Errorf("type de paramètre inconnu: %s", decl.Type)
		}
		params[decl.Name] = value
	}
	return params, nil
}

// substituteOperation replaces {param} placeholders in field and filter
// values. Identifiers (table, columns, order_by) are never substituted.
func substituteOperation(op models.ActionOperation, params map[string]string) models.ActionOperation {
	resolved := op
	if len(op.Fields) > 0 {
		resolved.Fields = make(map[string]string, len(op.Fields))
		for col, tmpl := range op.Fields {
			resolved.Fields[col] = substitute(tmpl, params)
		}
	}
	if len(op.Filters) > 0 {
		resolved.Filters = make(map[string]string, len(op.Filters))
		for col, tmpl := range op.Filters {
			resolved.Filters[col] = substitute(tmpl, params)
		}
	}
	return resolved
}

func substitute(tmpl string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}

// renderTemplates picks the reply template by result cardinality. The
// single template sees {param} and {field} values of the row; the
// multiple template sees {count} and {items}, where each item renders
// the item_line template per row.
func renderTemplates(templates models.ResponseTemplates, params map[string]string, result *repository.OperationResult) string {
	values := make(map[string]string, len(params)+1)
	for name, value := range params {
		values[name] = value
	}

	var rows []map[string]interface{}
	var affected int64
	if result != nil {
		rows = result.Rows
		affected = result.Affected
	}
	values["count"] = strconv.FormatInt(affected, 10)

	switch {
	case len(rows) == 1:
		for field, value := range rows[0] {
			values[field] = fmt.Sprintf("%v", value)
		}
		if templates.Single != "" {
			return substitute(templates.Single, values)
		}
	case len(rows) > 1:
		if templates.Multiple != "" {
			lines := make([]string, 0, len(rows))
			for _, row := range rows {
				rowValues := make(map[string]string, len(values)+len(row))
				for name, value := range values {
					rowValues[name] = value
				}
				for field, value := range row {
					rowValues[field] = fmt.Sprintf("%v", value)
				}
				line := templates.ItemLine
				if line == "" {
					line = "- {count}"
				}
				lines = append(lines, substitute(line, rowValues))
			}
			values["items"] = strings.Join(lines, "\n")
			return substitute(templates.Multiple, values)
		}
	case affected > 0:
		if templates.Single != "" {
			return substitute(templates.Single, values)
		}
	}
	if templates.Empty != "" {
		return substitute(templates.Empty, values)
	}
	return "Aucun résultat."
}

func toJSONMap(params map[string]string) models.JSONMap {
	m := make(models.JSONMap, len(params))
	for name, value := range params {
		m[name] = value
	}
	return m
}
