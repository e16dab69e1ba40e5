package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultValidator() *Validator {
	return NewValidator(DefaultSchema())
}

func TestValidateValidCSV(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"1,Jane Doe,jane@example.com,120.50\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateHeaderNameMismatch(t *testing.T) {
	csv := "identifier,name,email,amount\n" +
		"1,Jane Doe,jane@example.com,120.50\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
	assert.Equal(t, "header", result.Errors[0].Column)
	assert.Contains(t, result.Errors[0].Message, "Expected column 'id' but found 'identifier'")
}

func TestValidateHeaderCountMismatchSkipsRowChecks(t *testing.T) {
	// The data row is full of type errors, but none may be reported when
	// column positions are unreliable.
	csv := "id,name\n" +
		"abc,Jane,bad-email,zz\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ValidationError{Row: 0, Column: "header", Message: "Expected 4 columns but found 2"}, result.Errors[0])
}

func TestValidateInvalidRowsReturnDetailedErrors(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"abc,Jane Doe,bad-email,zz\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)

	columns := make([]string, 0, len(result.Errors))
	for _, err := range result.Errors {
		assert.Equal(t, 1, err.Row)
		columns = append(columns, err.Column)
	}
	assert.Equal(t, []string{"id", "email", "amount"}, columns)

	assert.Equal(t, "Value is not an integer", result.Errors[0].Message)
	assert.Equal(t, "Value is not a valid email", result.Errors[1].Message)
	assert.Equal(t, "Value is not numeric", result.Errors[2].Message)
}

func TestValidateBlankCellReportsRequiredOnly(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"1,Jane,,120.50\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ValidationError{Row: 1, Column: "email", Message: "Value is required"}, result.Errors[0])
}

func TestValidateAccumulatesAcrossRows(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"x,Jane,jane@example.com,1.50\n" +
		"2,Bob,bob@example.com,2.50\n" +
		"3,Eve,not-an-email,oops\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t, "id", result.Errors[0].Column)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, "email", result.Errors[1].Column)
	assert.Equal(t, 3, result.Errors[2].Row)
	assert.Equal(t, "amount", result.Errors[2].Column)
}

func TestValidateDateColumn(t *testing.T) {
	schema, err := NewSchema([]ColumnDefinition{
		{Name: "id", Type: ColumnTypeInteger},
		{Name: "date", Type: ColumnTypeDate},
	})
	require.NoError(t, err)
	validator := NewValidator(schema)

	ok := validator.Validate(strings.NewReader("id,date\n1,2024-01-31\n"))
	assert.True(t, ok.Valid)

	bad := validator.Validate(strings.NewReader("id,date\n1,31/01/2024\n"))
	require.False(t, bad.Valid)
	require.Len(t, bad.Errors, 1)
	assert.Equal(t, "date", bad.Errors[0].Column)
	assert.Contains(t, bad.Errors[0].Message, "Invalid date")
}

func TestValidateIntegerOverflow(t *testing.T) {
	schema, err := NewSchema([]ColumnDefinition{{Name: "id", Type: ColumnTypeInteger}})
	require.NoError(t, err)

	result := NewValidator(schema).Validate(strings.NewReader("id\n99999999999999999999\n"))

	require.False(t, result.Valid)
	assert.Equal(t, "Value is not an integer", result.Errors[0].Message)
}

func TestValidateEmptyInput(t *testing.T) {
	result := defaultValidator().Validate(strings.NewReader(""))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
	assert.Equal(t, "file", result.Errors[0].Column)
	assert.Contains(t, result.Errors[0].Message, "Unable to read CSV")
}

func TestValidateTrailingBlankLines(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"1,Jane,jane@example.com,1.50\n" +
		"\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	assert.True(t, result.Valid)
}

func TestValidateShortRowReportsMissingCells(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"1,Jane\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, ValidationError{Row: 1, Column: "email", Message: "Value is required"}, result.Errors[0])
	assert.Equal(t, ValidationError{Row: 1, Column: "amount", Message: "Value is required"}, result.Errors[1])
}

func TestValidateTrimsWhitespace(t *testing.T) {
	csv := "id, name , email ,amount\n" +
		" 1 , Jane , jane@example.com , 120.50 \n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	assert.True(t, result.Valid)
}

func TestValidateHeaderCaseInsensitive(t *testing.T) {
	csv := "ID,Name,EMAIL,Amount\n" +
		"1,Jane,jane@example.com,1.00\n"

	result := defaultValidator().Validate(strings.NewReader(csv))

	assert.True(t, result.Valid)
}

func TestValidateIsDeterministic(t *testing.T) {
	csv := "id,name,email,amount\n" +
		"abc,,bad,zz\n" +
		"2,Bob,bob@example.com,nope\n"

	first := defaultValidator().Validate(strings.NewReader(csv))
	second := defaultValidator().Validate(strings.NewReader(csv))

	assert.Equal(t, first, second)
}

func TestValidResultInvariant(t *testing.T) {
	inputs := []string{
		"id,name,email,amount\n1,Jane,jane@example.com,1.00\n",
		"id,name,email,amount\nabc,Jane,bad,zz\n",
		"wrong\n",
		"",
	}

	for _, input := range inputs {
		result := defaultValidator().Validate(strings.NewReader(input))
		assert.Equal(t, result.Valid, len(result.Errors) == 0, "input %q", input)
	}
}
