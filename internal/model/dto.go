package model

import (
	"time"

	"github.com/0belissk/csv-stats-pipeline/internal/validation"
)

// StorageEvent is the queue message produced when an object lands in the
// bucket. It mirrors the bucket notification shape: one event may carry
// several records.
type StorageEvent struct {
	Records []StorageEventRecord `json:"records"`
}

type StorageEventRecord struct {
	BucketName string `json:"bucket_name"`
	ObjectKey  string `json:"object_key"`
}

// ValidationRequest is the synchronous workflow-step entry point: validate
// one object and report the outcome without touching upload status.
type ValidationRequest struct {
	UploadID int64  `json:"upload_id"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
}

type ValidationResponse struct {
	UploadID   int64                        `json:"upload_id"`
	Valid      bool                         `json:"valid"`
	ErrorCount int                          `json:"error_count"`
	Errors     []validation.ValidationError `json:"errors,omitempty"`
}

// StatusRequest asks for a single status transition on an upload record.
type StatusRequest struct {
	UploadID int64                        `json:"upload_id"`
	Status   string                       `json:"status"`
	Errors   []validation.ValidationError `json:"errors,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type UploadResponse struct {
	ID           int64     `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Filename     string    `json:"filename"`
	Status       string    `json:"status"`
	SizeBytes    int64     `json:"size_bytes"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func UploadResponseFrom(u *Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		OwnerID:      u.OwnerID,
		Filename:     u.Filename,
		Status:       string(u.Status),
		SizeBytes:    u.SizeBytes,
		ErrorMessage: u.ErrorMessage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
