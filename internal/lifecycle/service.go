package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/0belissk/csv-stats-pipeline/internal/db"
	"github.com/0belissk/csv-stats-pipeline/internal/logger"
	"github.com/0belissk/csv-stats-pipeline/internal/model"
	"github.com/0belissk/csv-stats-pipeline/internal/storage"
	"github.com/0belissk/csv-stats-pipeline/internal/validation"
	apperrors "github.com/0belissk/csv-stats-pipeline/pkg/errors"
)

// maxResponseErrors caps the error list returned to workflow callers, same
// bound as the persisted payload.
const maxResponseErrors = 25

// Service drives the upload lifecycle: an object-created notification moves
// the upload through VALIDATING into VALIDATED or VALIDATION_FAILED. A
// retried notification simply re-runs the same transitions; validation is a
// pure function of the object bytes, so retries converge.
type Service struct {
	repo      db.Repository
	store     storage.Storage
	validator *validation.Validator
	log       zerolog.Logger
}

func NewService(repo db.Repository, store storage.Storage, validator *validation.Validator) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		validator: validator,
		log:       logger.WithComponent("lifecycle"),
	}
}

// ProcessBatch handles each record independently and sequentially. One
// record's failure never stops the remaining records; the first error is
// returned so the caller can route the message to the DLQ.
func (s *Service) ProcessBatch(ctx context.Context, records []model.StorageEventRecord) error {
	var firstErr error
	for _, record := range records {
		if err := s.ProcessRecord(ctx, record); err != nil {
			s.log.Error().Err(err).
				Str("bucket", record.BucketName).
				Str("key", record.ObjectKey).
				Msg("Record processing failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ProcessRecord runs the full transition protocol for one notification:
// decode key, mark VALIDATING, fetch, validate, mark terminal. A key that
// cannot be decoded is fatal for the record — there is no upload id to
// update. An unreadable object is folded into a VALIDATION_FAILED outcome so
// the upload still reaches a terminal, inspectable state.
func (s *Service) ProcessRecord(ctx context.Context, record model.StorageEventRecord) error {
	key, err := storage.ParseUploadKey(record.ObjectKey)
	if err != nil {
		return err
	}

	log := s.log.With().Int64("upload_id", key.UploadID).Str("key", record.ObjectKey).Logger()
	log.Info().Str("bucket", record.BucketName).Msg("Starting validation")

	if err := s.repo.MarkValidating(ctx, key.UploadID); err != nil {
		return err
	}

	reader, err := s.store.Download(ctx, record.ObjectKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read object")
		return s.repo.MarkFailed(ctx, key.UploadID, []validation.ValidationError{
			{Row: 0, Column: "file", Message: "Unable to read object: " + err.Error()},
		})
	}
	defer reader.Close()

	result := s.validator.Validate(reader)
	if result.Valid {
		if err := s.repo.MarkValidated(ctx, key.UploadID); err != nil {
			return err
		}
		log.Info().Msg("Upload validated successfully")
		return nil
	}

	if err := s.repo.MarkFailed(ctx, key.UploadID, result.Errors); err != nil {
		return err
	}
	log.Warn().Int("error_count", len(result.Errors)).Msg("Upload failed validation")
	return nil
}

// ValidateUpload is the synchronous workflow-step entry point: fetch and
// validate without touching upload status. An object that cannot be fetched
// is a hard failure here — the caller's retry policy decides what happens
// next.
func (s *Service) ValidateUpload(ctx context.Context, req model.ValidationRequest) (model.ValidationResponse, error) {
	reader, err := s.store.Download(ctx, req.Key)
	if err != nil {
		return model.ValidationResponse{}, fmt.Errorf("failed to fetch object %q: %w", req.Key, err)
	}
	defer reader.Close()

	result := s.validator.Validate(reader)

	errs := result.Errors
	if len(errs) > maxResponseErrors {
		errs = errs[:maxResponseErrors]
	}

	return model.ValidationResponse{
		UploadID:   req.UploadID,
		Valid:      result.Valid,
		ErrorCount: len(result.Errors),
		Errors:     errs,
	}, nil
}

// TransitionStatus applies a single externally requested transition. The
// status set is closed; anything else fails fast with ErrUnsupportedStatus.
func (s *Service) TransitionStatus(ctx context.Context, req model.StatusRequest) (model.StatusResponse, error) {
	s.log.Info().Int64("upload_id", req.UploadID).Str("status", req.Status).Msg("Updating upload status")

	switch model.UploadStatus(req.Status) {
	case model.UploadStatusValidating:
		if err := s.repo.MarkValidating(ctx, req.UploadID); err != nil {
			return model.StatusResponse{}, err
		}
	case model.UploadStatusValidated:
		if err := s.repo.MarkValidated(ctx, req.UploadID); err != nil {
			return model.StatusResponse{}, err
		}
	case model.UploadStatusValidationFailed:
		if err := s.repo.MarkFailed(ctx, req.UploadID, req.Errors); err != nil {
			return model.StatusResponse{}, err
		}
	default:
		return model.StatusResponse{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedStatus, req.Status)
	}

	return model.StatusResponse{Status: req.Status}, nil
}
