package storage

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/0belissk/csv-stats-pipeline/pkg/errors"
)

const keyPrefix = "uploads"

// UploadKey is the upload identity recovered from a storage key. It is the
// only channel carrying the upload id from a bucket notification to the
// validation pipeline.
type UploadKey struct {
	OwnerID  string
	UploadID int64
	Filename string
}

// ParseUploadKey decodes a key of the form uploads/{ownerId}/{uploadId}/{filename}.
// The owner and filename segments are opaque; only structure and the numeric
// upload id are checked.
func ParseUploadKey(key string) (UploadKey, error) {
	if strings.TrimSpace(key) == "" {
		return UploadKey{}, apperrors.NewKeyFormatError(key, "key cannot be empty")
	}

	parts := strings.Split(key, "/")
	if len(parts) < 4 {
		return UploadKey{}, apperrors.NewKeyFormatError(key, "key must follow uploads/{ownerId}/{uploadId}/{filename}")
	}

	if parts[0] != keyPrefix {
		return UploadKey{}, apperrors.NewKeyFormatError(key, fmt.Sprintf("unexpected root folder %q", parts[0]))
	}

	uploadID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return UploadKey{}, apperrors.NewKeyFormatError(key, "upload id must be numeric")
	}

	return UploadKey{
		OwnerID:  parts[1],
		UploadID: uploadID,
		Filename: parts[len(parts)-1],
	}, nil
}

// BuildUploadKey is the inverse of ParseUploadKey. Callers must only build
// keys after the upload record has been persisted, so the id segment is
// stable and unique.
func BuildUploadKey(ownerID string, uploadID int64, filename string) string {
	return fmt.Sprintf("%s/%s/%d/%s", keyPrefix, ownerID, uploadID, filename)
}
