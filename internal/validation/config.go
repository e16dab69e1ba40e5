package validation

import (
	"fmt"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
)

// SchemaFromConfig builds the column contract from configuration. An empty
// schema section falls back to the default four-column contract; a bad
// entry fails startup rather than surfacing per row.
func SchemaFromConfig(cfg config.ValidationConfig) (Schema, error) {
	if len(cfg.Schema) == 0 {
		return DefaultSchema(), nil
	}

	columns := make([]ColumnDefinition, 0, len(cfg.Schema))
	for _, col := range cfg.Schema {
		columnType, err := ParseColumnType(col.Type)
		if err != nil {
			return Schema{}, fmt.Errorf("invalid schema column %q: %w", col.Name, err)
		}
		columns = append(columns, ColumnDefinition{Name: col.Name, Type: columnType})
	}
	return NewSchema(columns)
}
