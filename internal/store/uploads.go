package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docsmith/docchat/internal/models"
)

type UploadStore struct {
	client *firestore.Client
}

func NewUploadStore(client *firestore.Client) *UploadStore {
	return &UploadStore{client: client}
}

func (s *UploadStore) Create(ctx context.Context, rec models.UploadRecord) error {
	if _, err := s.client.Collection(uploadsCollection).Doc(rec.UploadID).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to create upload record: %w", err)
	}
	return nil
}

func (s *UploadStore) Get(ctx context.Context, uploadID string) (*models.UploadRecord, error) {
	snap, err := s.client.Collection(uploadsCollection).Doc(uploadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upload %s: %w", uploadID, err)
	}

	var rec models.UploadRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode upload %s: %w", uploadID, err)
	}
	return &rec, nil
}

// ListByUser returns the user's active uploads, newest first.
func (s *UploadStore) ListByUser(ctx context.Context, userID string) ([]models.UploadRecord, error) {
	iter := s.client.Collection(uploadsCollection).
		Where("userId", "==", userID).
		Where("isActive", "==", true).
		OrderBy("uploadedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var recs []models.UploadRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list uploads for user %s: %w", userID, err)
		}
		var rec models.UploadRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode upload: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// GetActiveByIDs resolves upload IDs to records, preserving the order of
// ids. Missing or soft-deleted uploads are silently skipped; the caller
// only ever grounds a chat turn in uploads that still exist.
func (s *UploadStore) GetActiveByIDs(ctx context.Context, ids []string) ([]models.UploadRecord, error) {
	recs := make([]models.UploadRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !rec.IsActive {
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

// SoftDelete hides an upload from listings and chat. The record itself is
// kept so past messages can still name their attachments.
func (s *UploadStore) SoftDelete(ctx context.Context, uploadID string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "isActive", Value: false},
		{Path: "deletedAt", Value: at},
	}
	if _, err := s.client.Collection(uploadsCollection).Doc(uploadID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to soft-delete upload %s: %w", uploadID, err)
	}
	return nil
}

// RecordAccess bumps the download counter when a presigned URL is reissued.
func (s *UploadStore) RecordAccess(ctx context.Context, uploadID string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "downloadCount", Value: firestore.Increment(1)},
		{Path: "lastAccessedAt", Value: at},
	}
	if _, err := s.client.Collection(uploadsCollection).Doc(uploadID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to record access for upload %s: %w", uploadID, err)
	}
	return nil
}
