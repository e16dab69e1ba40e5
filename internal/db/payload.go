package db

import (
	"strconv"
	"strings"

	"github.com/0belissk/csv-stats-pipeline/internal/validation"
)

// maxPayloadErrors bounds the serialized error list so the error_message
// column stays readable for a huge failing file.
const maxPayloadErrors = 25

// buildErrorPayload renders validation errors as a JSON-array-shaped text
// payload. Quotes and backslashes in column names or messages are escaped so
// the payload itself stays well-formed.
func buildErrorPayload(errs []validation.ValidationError) *string {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) > maxPayloadErrors {
		errs = errs[:maxPayloadErrors]
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, err := range errs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"row":`)
		b.WriteString(strconv.Itoa(err.Row))
		b.WriteString(`,"column":"`)
		b.WriteString(escape(err.Column))
		b.WriteString(`","message":"`)
		b.WriteString(escape(err.Message))
		b.WriteString(`"}`)
	}
	b.WriteByte(']')

	payload := b.String()
	return &payload
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
