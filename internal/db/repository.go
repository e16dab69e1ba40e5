package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/0belissk/csv-stats-pipeline/internal/model"
	"github.com/0belissk/csv-stats-pipeline/internal/validation"
	apperrors "github.com/0belissk/csv-stats-pipeline/pkg/errors"
)

// Repository is the persistence boundary for upload records. Status writes
// are blind overwrites keyed by upload id; the store does not reject
// duplicate or out-of-order transitions.
type Repository interface {
	CreateUpload(ctx context.Context, upload *model.Upload) (int64, error)
	SetUploadKey(ctx context.Context, uploadID int64, key string) error
	GetUpload(ctx context.Context, uploadID int64) (*model.Upload, error)
	ListUploads(ctx context.Context, ownerID string) ([]model.Upload, error)
	ListStuckValidating(ctx context.Context, olderThan time.Duration, limit int) ([]model.Upload, error)

	MarkValidating(ctx context.Context, uploadID int64) error
	MarkValidated(ctx context.Context, uploadID int64) error
	MarkFailed(ctx context.Context, uploadID int64, errs []validation.ValidationError) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUpload(ctx context.Context, upload *model.Upload) (int64, error) {
	query := `INSERT INTO csv_uploads (owner_id, filename, s3_key, size_bytes, content_type, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.ExecContext(ctx, query, upload.OwnerID, upload.Filename, upload.S3Key,
		upload.SizeBytes, upload.ContentType, model.UploadStatusPending)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *repository) SetUploadKey(ctx context.Context, uploadID int64, key string) error {
	query := `UPDATE csv_uploads SET s3_key = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, key, uploadID)
	return err
}

func (r *repository) GetUpload(ctx context.Context, uploadID int64) (*model.Upload, error) {
	query := `SELECT id, owner_id, filename, s3_key, size_bytes, content_type, status, error_message, created_at, updated_at
			  FROM csv_uploads WHERE id = ?`

	var upload model.Upload
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(
		&upload.ID, &upload.OwnerID, &upload.Filename, &upload.S3Key, &upload.SizeBytes,
		&upload.ContentType, &upload.Status, &upload.ErrorMessage, &upload.CreatedAt, &upload.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUploadNotFound
		}
		return nil, err
	}

	return &upload, nil
}

func (r *repository) ListUploads(ctx context.Context, ownerID string) ([]model.Upload, error) {
	query := `SELECT id, owner_id, filename, s3_key, size_bytes, content_type, status, error_message, created_at, updated_at
			  FROM csv_uploads WHERE owner_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUploads(rows)
}

func (r *repository) ListStuckValidating(ctx context.Context, olderThan time.Duration, limit int) ([]model.Upload, error) {
	query := `SELECT id, owner_id, filename, s3_key, size_bytes, content_type, status, error_message, created_at, updated_at
			  FROM csv_uploads
			  WHERE status = ? AND updated_at < (NOW() - INTERVAL ? SECOND)
			  ORDER BY updated_at ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, model.UploadStatusValidating, int(olderThan.Seconds()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUploads(rows)
}

func (r *repository) MarkValidating(ctx context.Context, uploadID int64) error {
	return r.updateStatus(ctx, uploadID, model.UploadStatusValidating, nil)
}

func (r *repository) MarkValidated(ctx context.Context, uploadID int64) error {
	return r.updateStatus(ctx, uploadID, model.UploadStatusValidated, nil)
}

func (r *repository) MarkFailed(ctx context.Context, uploadID int64, errs []validation.ValidationError) error {
	return r.updateStatus(ctx, uploadID, model.UploadStatusValidationFailed, buildErrorPayload(errs))
}

func (r *repository) updateStatus(ctx context.Context, uploadID int64, status model.UploadStatus, errorPayload *string) error {
	query := `UPDATE csv_uploads SET status = ?, error_message = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, errorPayload, uploadID)
	if err != nil {
		return apperrors.NewStatusPersistenceError(uploadID, err)
	}
	return nil
}

func scanUploads(rows *sql.Rows) ([]model.Upload, error) {
	var uploads []model.Upload
	for rows.Next() {
		var upload model.Upload
		err := rows.Scan(&upload.ID, &upload.OwnerID, &upload.Filename, &upload.S3Key,
			&upload.SizeBytes, &upload.ContentType, &upload.Status, &upload.ErrorMessage,
			&upload.CreatedAt, &upload.UpdatedAt)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}
