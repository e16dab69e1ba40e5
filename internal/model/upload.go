package model

import "time"

type UploadStatus string

const (
	UploadStatusPending          UploadStatus = "PENDING"
	UploadStatusValidating       UploadStatus = "VALIDATING"
	UploadStatusValidated        UploadStatus = "VALIDATED"
	UploadStatusValidationFailed UploadStatus = "VALIDATION_FAILED"
)

type Upload struct {
	ID           int64        `json:"id" db:"id"`
	OwnerID      string       `json:"owner_id" db:"owner_id"`
	Filename     string       `json:"filename" db:"filename"`
	S3Key        string       `json:"s3_key" db:"s3_key"`
	SizeBytes    int64        `json:"size_bytes" db:"size_bytes"`
	ContentType  string       `json:"content_type" db:"content_type"`
	Status       UploadStatus `json:"status" db:"status"`
	ErrorMessage *string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
