package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
)

func TestSchemaFromConfigEmptyFallsBackToDefault(t *testing.T) {
	schema, err := SchemaFromConfig(config.ValidationConfig{})

	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), schema)
}

func TestSchemaFromConfig(t *testing.T) {
	schema, err := SchemaFromConfig(config.ValidationConfig{
		Schema: []config.ColumnConfig{
			{Name: "sku", Type: "string"},
			{Name: "quantity", Type: "INTEGER"},
			{Name: "shipped_on", Type: "date"},
		},
	})

	require.NoError(t, err)
	require.Equal(t, 3, schema.Len())
	assert.Equal(t, ColumnTypeDate, schema.Columns()[2].Type)
}

func TestSchemaFromConfigRejectsUnknownType(t *testing.T) {
	_, err := SchemaFromConfig(config.ValidationConfig{
		Schema: []config.ColumnConfig{{Name: "sku", Type: "UUID"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column type")
}

func TestSchemaFromConfigRejectsDuplicates(t *testing.T) {
	_, err := SchemaFromConfig(config.ValidationConfig{
		Schema: []config.ColumnConfig{
			{Name: "sku", Type: "STRING"},
			{Name: "sku", Type: "INTEGER"},
		},
	})

	assert.Error(t, err)
}
