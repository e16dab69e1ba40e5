package validation

import (
	"fmt"
	"strings"
)

type ColumnType string

const (
	ColumnTypeString  ColumnType = "STRING"
	ColumnTypeInteger ColumnType = "INTEGER"
	ColumnTypeDecimal ColumnType = "DECIMAL"
	ColumnTypeEmail   ColumnType = "EMAIL"
	ColumnTypeDate    ColumnType = "DATE"
)

// ParseColumnType maps the configured string form to a ColumnType. Unknown
// names are rejected so a typo in config fails at startup, not per row.
func ParseColumnType(s string) (ColumnType, error) {
	switch ColumnType(strings.ToUpper(strings.TrimSpace(s))) {
	case ColumnTypeString:
		return ColumnTypeString, nil
	case ColumnTypeInteger:
		return ColumnTypeInteger, nil
	case ColumnTypeDecimal:
		return ColumnTypeDecimal, nil
	case ColumnTypeEmail:
		return ColumnTypeEmail, nil
	case ColumnTypeDate:
		return ColumnTypeDate, nil
	default:
		return "", fmt.Errorf("unknown column type: %q", s)
	}
}

type ColumnDefinition struct {
	Name string
	Type ColumnType
}

func NewColumnDefinition(name string, columnType ColumnType) (ColumnDefinition, error) {
	if strings.TrimSpace(name) == "" {
		return ColumnDefinition{}, fmt.Errorf("column name cannot be blank")
	}
	if _, err := ParseColumnType(string(columnType)); err != nil {
		return ColumnDefinition{}, err
	}
	return ColumnDefinition{Name: name, Type: columnType}, nil
}

// Schema is an ordered list of column definitions. Order is significant:
// CSV headers are matched positionally.
type Schema struct {
	columns []ColumnDefinition
}

// NewSchema builds a schema from the given definitions. Duplicate column
// names (case-insensitive) are rejected because a repeated header makes
// positional intent ambiguous.
func NewSchema(columns []ColumnDefinition) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, fmt.Errorf("schema requires at least one column")
	}
	seen := make(map[string]struct{}, len(columns))
	out := make([]ColumnDefinition, 0, len(columns))
	for _, col := range columns {
		def, err := NewColumnDefinition(col.Name, col.Type)
		if err != nil {
			return Schema{}, err
		}
		lower := strings.ToLower(def.Name)
		if _, dup := seen[lower]; dup {
			return Schema{}, fmt.Errorf("duplicate column name: %q", def.Name)
		}
		seen[lower] = struct{}{}
		out = append(out, def)
	}
	return Schema{columns: out}, nil
}

// DefaultSchema is the fixed four-column upload contract.
func DefaultSchema() Schema {
	schema, err := NewSchema([]ColumnDefinition{
		{Name: "id", Type: ColumnTypeInteger},
		{Name: "name", Type: ColumnTypeString},
		{Name: "email", Type: ColumnTypeEmail},
		{Name: "amount", Type: ColumnTypeDecimal},
	})
	if err != nil {
		panic(err)
	}
	return schema
}

func (s Schema) Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s Schema) Len() int {
	return len(s.columns)
}
