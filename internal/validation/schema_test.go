package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		input   string
		want    ColumnType
		wantErr bool
	}{
		{input: "STRING", want: ColumnTypeString},
		{input: "integer", want: ColumnTypeInteger},
		{input: " decimal ", want: ColumnTypeDecimal},
		{input: "EMAIL", want: ColumnTypeEmail},
		{input: "DATE", want: ColumnTypeDate},
		{input: "FLOAT", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColumnType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewColumnDefinitionRejectsBlankName(t *testing.T) {
	_, err := NewColumnDefinition("  ", ColumnTypeString)
	assert.Error(t, err)
}

func TestNewSchemaRejectsDuplicateNames(t *testing.T) {
	_, err := NewSchema([]ColumnDefinition{
		{Name: "id", Type: ColumnTypeInteger},
		{Name: "ID", Type: ColumnTypeString},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column name")
}

func TestNewSchemaRejectsEmpty(t *testing.T) {
	_, err := NewSchema(nil)
	assert.Error(t, err)
}

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()
	require.Equal(t, 4, schema.Len())

	columns := schema.Columns()
	assert.Equal(t, ColumnDefinition{Name: "id", Type: ColumnTypeInteger}, columns[0])
	assert.Equal(t, ColumnDefinition{Name: "name", Type: ColumnTypeString}, columns[1])
	assert.Equal(t, ColumnDefinition{Name: "email", Type: ColumnTypeEmail}, columns[2])
	assert.Equal(t, ColumnDefinition{Name: "amount", Type: ColumnTypeDecimal}, columns[3])
}

func TestSchemaColumnsReturnsCopy(t *testing.T) {
	schema := DefaultSchema()
	columns := schema.Columns()
	columns[0].Name = "mutated"
	assert.Equal(t, "id", schema.Columns()[0].Name)
}
