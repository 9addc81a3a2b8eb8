package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Parameter types accepted by action declarations.
const (
	ParamTypeString  = "string"
	ParamTypeInteger = "integer"
	ParamTypeBoolean = "boolean"
)

// Operation types an action may declare.
const (
	OperationSelect = "select"
	OperationInsert = "insert"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// ActionParam declares one typed parameter of an action.
type ActionParam struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Required bool    `json:"required"`
	Default  *string `json:"default,omitempty"`
}

// ActionOperation declares one database operation. Field values and filter
// values may contain {param} placeholders substituted at execution time.
type ActionOperation struct {
	Type    string            `json:"type"`
	Table   string            `json:"table"`
	Fields  map[string]string `json:"fields,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	OrderBy string            `json:"order_by,omitempty"`
	Limit   int               `json:"limit,omitempty"`
}

// ResponseTemplates selects the reply template by result cardinality.
// Templates may reference {param} values and, for single-row results,
// {field} values of the returned row. {count} expands to the row count.
type ResponseTemplates struct {
	Empty    string `json:"empty"`
	Single   string `json:"single"`
	Multiple string `json:"multiple"`
	ItemLine string `json:"item_line,omitempty"`
}

// ActionParams is the JSONB-backed parameter list.
type ActionParams []ActionParam

// ActionOperations is the JSONB-backed operation list.
type ActionOperations []ActionOperation

// Action is a declarative, template-driven database operation descriptor
// matched against inbound messages by keyword.
type Action struct {
	ID          string            `db:"id" json:"id"`
	Name        string            `db:"name" json:"name"`
	Description string            `db:"description" json:"description"`
	Keywords    pq.StringArray    `db:"keywords" json:"keywords"`
	Permissions pq.StringArray    `db:"permissions" json:"permissions"`
	Params      ActionParams      `db:"params" json:"params"`
	Operations  ActionOperations  `db:"operations" json:"operations"`
	Templates   ResponseTemplates `db:"templates" json:"templates"`
	Active      bool              `db:"active" json:"active"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

func (p ActionParams) Value() (driver.Value, error)      { return json.Marshal(p) }
func (p *ActionParams) Scan(src interface{}) error       { return scanJSON(src, p) }
func (o ActionOperations) Value() (driver.Value, error)  { return json.Marshal(o) }
func (o *ActionOperations) Scan(src interface{}) error   { return scanJSON(src, o) }
func (t ResponseTemplates) Value() (driver.Value, error) { return json.Marshal(t) }
func (t *ResponseTemplates) Scan(src interface{}) error  { return scanJSON(src, t) }

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
