package validation

// ValidationError is a single finding against a CSV payload. Row 0 marks
// header or file-level findings; data rows are 1-indexed.
type ValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

func Success() Result {
	return Result{Valid: true, Errors: []ValidationError{}}
}

func Failure(errors []ValidationError) Result {
	return Result{Valid: false, Errors: errors}
}
