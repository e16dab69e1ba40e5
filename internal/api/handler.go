package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
	"github.com/0belissk/csv-stats-pipeline/internal/db"
	"github.com/0belissk/csv-stats-pipeline/internal/lifecycle"
	"github.com/0belissk/csv-stats-pipeline/internal/logger"
	"github.com/0belissk/csv-stats-pipeline/internal/model"
	"github.com/0belissk/csv-stats-pipeline/internal/storage"
	apperrors "github.com/0belissk/csv-stats-pipeline/pkg/errors"
)

// ownerHeader carries the upload owner. Authentication lives in front of
// this service; the header is trusted as-is.
const ownerHeader = "X-Owner-Id"

// EventPublisher emits object-created notifications; satisfied by the queue
// producer.
type EventPublisher interface {
	EnqueueStorageEvent(ctx context.Context, event model.StorageEvent) error
}

type Handler struct {
	repo     db.Repository
	store    storage.Storage
	producer EventPublisher
	service  *lifecycle.Service
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	store storage.Storage,
	producer EventPublisher,
	service *lifecycle.Service,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:     repo,
		store:    store,
		producer: producer,
		service:  service,
		cfg:      cfg,
		log:      logger.WithComponent("api"),
	}
}

// RegisterUpload accepts a multipart CSV file, persists a PENDING record,
// stores the object under a key built from the persisted id, and emits the
// object-created notification that drives validation.
func (h *Handler) RegisterUpload(c *gin.Context) {
	owner := strings.TrimSpace(c.GetHeader(ownerHeader))
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner header is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrEmptyFile.Error()})
		return
	}
	if fileHeader.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrEmptyFile.Error()})
		return
	}
	if limit := h.cfg.Server.MaxUploadBytes; limit > 0 && fileHeader.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the upload size limit"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	filename := filepath.Base(fileHeader.Filename)
	if filename == "" || filename == "." {
		filename = "upload.csv"
	}
	if !isCSV(contentType, filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV uploads are supported"})
		return
	}
	if contentType == "" {
		contentType = "text/csv"
	}

	upload := &model.Upload{
		OwnerID:     owner,
		Filename:    filename,
		SizeBytes:   fileHeader.Size,
		ContentType: contentType,
		Status:      model.UploadStatusPending,
	}

	uploadID, err := h.repo.CreateUpload(c.Request.Context(), upload)
	if err != nil {
		h.log.Error().Err(err).Str("owner", owner).Msg("Failed to create upload record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register upload"})
		return
	}

	// The key embeds the persisted id, so it can only be built now.
	key := storage.BuildUploadKey(owner, uploadID, filename)
	if err := h.repo.SetUploadKey(c.Request.Context(), uploadID, key); err != nil {
		h.log.Error().Err(err).Int64("upload_id", uploadID).Msg("Failed to set upload key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register upload"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	if err := h.store.Upload(c.Request.Context(), key, file); err != nil {
		h.log.Error().Err(err).Int64("upload_id", uploadID).Msg("Failed to store object")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	event := model.StorageEvent{
		Records: []model.StorageEventRecord{
			{BucketName: h.cfg.Storage.S3.Bucket, ObjectKey: key},
		},
	}
	if err := h.producer.EnqueueStorageEvent(c.Request.Context(), event); err != nil {
		h.log.Error().Err(err).Int64("upload_id", uploadID).Msg("Failed to enqueue storage event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue validation"})
		return
	}

	h.log.Info().Int64("upload_id", uploadID).Str("owner", owner).Str("key", key).Msg("Upload registered")

	upload.ID = uploadID
	upload.S3Key = key
	c.JSON(http.StatusCreated, model.UploadResponseFrom(upload))
}

func (h *Handler) ListUploads(c *gin.Context) {
	owner := strings.TrimSpace(c.GetHeader(ownerHeader))
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner header is required"})
		return
	}

	uploads, err := h.repo.ListUploads(c.Request.Context(), owner)
	if err != nil {
		h.log.Error().Err(err).Str("owner", owner).Msg("Failed to list uploads")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]model.UploadResponse, 0, len(uploads))
	for i := range uploads {
		responses = append(responses, model.UploadResponseFrom(&uploads[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) GetUpload(c *gin.Context) {
	uploadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload ID"})
		return
	}

	upload, err := h.repo.GetUpload(c.Request.Context(), uploadID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUploadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
			return
		}
		h.log.Error().Err(err).Int64("upload_id", uploadID).Msg("Failed to get upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, model.UploadResponseFrom(upload))
}

// ValidateUpload is the synchronous workflow step: fetch the object and
// report findings without touching upload status.
func (h *Handler) ValidateUpload(c *gin.Context) {
	var req model.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.ValidateUpload(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Int64("upload_id", req.UploadID).Msg("Validation step failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to fetch object for validation"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TransitionStatus is the workflow step that persists a status transition.
func (h *Handler) TransitionStatus(c *gin.Context) {
	var req model.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status value is required"})
		return
	}

	resp, err := h.service.TransitionStatus(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Int64("upload_id", req.UploadID).Msg("Status transition failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func isCSV(contentType, filename string) bool {
	contentTypeCSV := strings.EqualFold(contentType, "text/csv") ||
		strings.EqualFold(contentType, "application/vnd.ms-excel")
	filenameCSV := strings.HasSuffix(strings.ToLower(filename), ".csv")
	return contentTypeCSV || filenameCSV
}
