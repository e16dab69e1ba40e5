package validation

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const dateLayout = "2006-01-02"

// Validator checks a CSV payload against a column schema. It never fails on
// the content of the CSV: findings accumulate into the Result and the stream
// is read exhaustively, row by row.
type Validator struct {
	schema Schema
}

func NewValidator(schema Schema) *Validator {
	return &Validator{schema: schema}
}

// Validate streams the payload and returns every finding in row-major order.
// A read error (truncated stream, empty input) is folded into the Result as a
// single row-0 "file" error rather than returned to the caller.
func (v *Validator) Validate(r io.Reader) Result {
	var errs []ValidationError

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Data rows may be ragged; missing trailing cells are reported per
	// column as required-value findings instead of aborting the file.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		errs = append(errs, ValidationError{Row: 0, Column: "file", Message: "Unable to read CSV: " + readErrorMessage(err)})
		return Failure(errs)
	}

	if headerMismatch := v.validateHeader(trimFields(header), &errs); headerMismatch {
		return Failure(errs)
	}

	rowNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, ValidationError{Row: 0, Column: "file", Message: "Unable to read CSV: " + readErrorMessage(err)})
			break
		}
		v.validateRow(trimFields(record), rowNumber, &errs)
		rowNumber++
	}

	if len(errs) == 0 {
		return Success()
	}
	return Failure(errs)
}

// validateHeader reports true when the column count differs from the schema.
// In that case positional matching is unreliable, so row checks are skipped
// entirely.
func (v *Validator) validateHeader(header []string, errs *[]ValidationError) bool {
	if len(header) != v.schema.Len() {
		*errs = append(*errs, ValidationError{
			Row:     0,
			Column:  "header",
			Message: fmt.Sprintf("Expected %d columns but found %d", v.schema.Len(), len(header)),
		})
		return true
	}

	for i, col := range v.schema.columns {
		if !strings.EqualFold(col.Name, header[i]) {
			*errs = append(*errs, ValidationError{
				Row:     0,
				Column:  "header",
				Message: fmt.Sprintf("Expected column '%s' but found '%s'", col.Name, header[i]),
			})
		}
	}
	return false
}

func (v *Validator) validateRow(record []string, rowNumber int, errs *[]ValidationError) {
	for i, col := range v.schema.columns {
		var value string
		if i < len(record) {
			value = record[i]
		}
		if value == "" {
			*errs = append(*errs, ValidationError{Row: rowNumber, Column: col.Name, Message: "Value is required"})
			continue
		}

		switch col.Type {
		case ColumnTypeString:
			// Always passes.
		case ColumnTypeInteger:
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				*errs = append(*errs, ValidationError{Row: rowNumber, Column: col.Name, Message: "Value is not an integer"})
			}
		case ColumnTypeDecimal:
			if _, err := decimal.NewFromString(value); err != nil {
				*errs = append(*errs, ValidationError{Row: rowNumber, Column: col.Name, Message: "Value is not numeric"})
			}
		case ColumnTypeEmail:
			if !emailRegex.MatchString(value) {
				*errs = append(*errs, ValidationError{Row: rowNumber, Column: col.Name, Message: "Value is not a valid email"})
			}
		case ColumnTypeDate:
			if _, err := time.Parse(dateLayout, value); err != nil {
				*errs = append(*errs, ValidationError{Row: rowNumber, Column: col.Name, Message: "Invalid date (expected yyyy-MM-dd)"})
			}
		}
	}
}

func trimFields(record []string) []string {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record
}

func readErrorMessage(err error) string {
	if err == io.EOF {
		return "empty input"
	}
	return err.Error()
}
