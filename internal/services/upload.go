package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docchat/internal/gcp"
	"github.com/docsmith/docchat/internal/models"
	"github.com/docsmith/docchat/internal/pdftext"
	"github.com/docsmith/docchat/internal/store"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 50 << 20

// UploadService stores incoming files in GCS and their metadata in
// Firestore. PDFs are probed at upload time so the chat flow knows up front
// whether the full analyzer is likely to accept them.
type UploadService struct {
	objects    *gcp.ObjectStore
	uploads    *store.UploadStore
	presignTTL time.Duration
	log        *slog.Logger
}

func NewUploadService(objects *gcp.ObjectStore, uploads *store.UploadStore, presignTTL time.Duration, log *slog.Logger) *UploadService {
	return &UploadService{
		objects:    objects,
		uploads:    uploads,
		presignTTL: presignTTL,
		log:        log.With("service", "upload"),
	}
}

// Accept stores one file and returns its record.
func (s *UploadService) Accept(ctx context.Context, userID, originalName, mimeType string, body io.Reader) (*models.UploadRecord, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("upload body is empty")
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("upload exceeds the %d MB limit", maxUploadBytes>>20)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	uploadID := uuid.NewString()
	fileName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uploadID[:8], filepath.Ext(originalName))
	storageKey := fmt.Sprintf("uploads/%s/%s", userID, fileName)

	parserCompatible := false
	if mimeType == "application/pdf" {
		_, parserCompatible = pdftext.Probe(data)
	}

	if err := s.objects.Upload(ctx, storageKey, mimeType, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	presigned, err := s.objects.Presign(ctx, storageKey, s.presignTTL)
	if err != nil {
		s.log.Warn("Failed to presign upload; record will carry no URL.", "storageKey", storageKey, "error", err)
		presigned = ""
	}

	rec := models.UploadRecord{
		UploadID:         uploadID,
		UserID:           userID,
		OriginalName:     originalName,
		FileName:         fileName,
		StorageKey:       storageKey,
		PresignedURL:     presigned,
		SizeBytes:        int64(len(data)),
		MimeType:         mimeType,
		FileExtension:    ext,
		ParserCompatible: parserCompatible,
		IsActive:         true,
		UploadedAt:       time.Now(),
	}
	if err := s.uploads.Create(ctx, rec); err != nil {
		// Best effort: do not leave an orphan object behind.
		if delErr := s.objects.Delete(ctx, storageKey); delErr != nil {
			s.log.Error("Failed to clean up orphan object.", "storageKey", storageKey, "error", delErr)
		}
		return nil, err
	}

	s.log.Info("Upload stored.",
		"uploadId", uploadID,
		"userId", userID,
		"sizeBytes", rec.SizeBytes,
		"mimeType", mimeType,
		"parserCompatible", parserCompatible)
	return &rec, nil
}

// List returns the user's active uploads.
func (s *UploadService) List(ctx context.Context, userID string) ([]models.UploadRecord, error) {
	return s.uploads.ListByUser(ctx, userID)
}

// Delete removes the stored object and soft-deletes the record. Only the
// owner may delete an upload.
func (s *UploadService) Delete(ctx context.Context, userID, uploadID string) error {
	rec, err := s.uploads.Get(ctx, uploadID)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return store.ErrNotFound
	}

	if err := s.objects.Delete(ctx, rec.StorageKey); err != nil {
		return err
	}
	if err := s.uploads.SoftDelete(ctx, uploadID, time.Now()); err != nil {
		return err
	}

	s.log.Info("Upload deleted.", "uploadId", uploadID, "userId", userID)
	return nil
}

// DownloadURL issues a fresh presigned URL for an active upload and records
// the access.
func (s *UploadService) DownloadURL(ctx context.Context, userID, uploadID string) (string, error) {
	rec, err := s.uploads.Get(ctx, uploadID)
	if err != nil {
		return "", err
	}
	if rec.UserID != userID || !rec.IsActive {
		return "", store.ErrNotFound
	}

	url, err := s.objects.Presign(ctx, rec.StorageKey, s.presignTTL)
	if err != nil {
		return "", err
	}
	if err := s.uploads.RecordAccess(ctx, uploadID, time.Now()); err != nil {
		s.log.Warn("Failed to record upload access.", "uploadId", uploadID, "error", err)
	}
	return url, nil
}
