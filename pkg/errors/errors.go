package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUploadNotFound    = errors.New("upload not found")
	ErrObjectNotFound    = errors.New("object not found")
	ErrUnsupportedStatus = errors.New("unsupported status transition")
	ErrEmptyFile         = errors.New("file is required")
)

// KeyFormatError reports a storage key that does not follow the
// uploads/{ownerId}/{uploadId}/{filename} convention.
type KeyFormatError struct {
	Key    string
	Reason string
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("malformed upload key %q: %s", e.Key, e.Reason)
}

func NewKeyFormatError(key, reason string) error {
	return &KeyFormatError{Key: key, Reason: reason}
}

// StatusPersistenceError wraps a failed status write. Losing a status
// transition would corrupt the upload record's source of truth, so these
// always surface to the caller instead of being swallowed.
type StatusPersistenceError struct {
	UploadID int64
	Err      error
}

func (e *StatusPersistenceError) Error() string {
	return fmt.Sprintf("failed to persist status for upload %d: %s", e.UploadID, e.Err.Error())
}

func (e *StatusPersistenceError) Unwrap() error {
	return e.Err
}

func NewStatusPersistenceError(uploadID int64, err error) error {
	return &StatusPersistenceError{UploadID: uploadID, Err: err}
}
