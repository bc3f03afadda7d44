package gcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ObjectStore wraps a single GCS bucket holding user uploads and transcript
// artifacts.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

func NewObjectStore(ctx context.Context, bucket string) (*ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name must be provided to create an object store")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &ObjectStore{client: client, bucket: bucket}, nil
}

func (s *ObjectStore) Close() error {
	return s.client.Close()
}

// ObjectURI returns the gs:// URI for a key, the form the managed analyzers
// and the speech service consume.
func (s *ObjectStore) ObjectURI(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}

// keyFromURI inverts ObjectURI for this store's bucket.
func (s *ObjectStore) keyFromURI(uri string) (string, error) {
	prefix := fmt.Sprintf("gs://%s/", s.bucket)
	key := strings.TrimPrefix(uri, prefix)
	if key == uri || key == "" {
		return "", fmt.Errorf("URI %q is not in bucket %s", uri, s.bucket)
	}
	return key, nil
}

// GetObjectBytes reads an entire object into memory.
func (s *ObjectStore) GetObjectBytes(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", s.bucket, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// Upload streams content to a key, finalizing only on a clean Close.
func (s *ObjectStore) Upload(ctx context.Context, key, contentType string, r io.Reader) error {
	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// SaveObjectIfAbsent writes content only if the key does not already exist.
// A precondition failure means another worker won the race, which is fine:
// the content is derived deterministically from the same source.
func (s *ObjectStore) SaveObjectIfAbsent(ctx context.Context, key, content string) error {
	writer := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)

	if _, err := io.WriteString(writer, content); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Object already exists, skipping write.", "key", key)
			return nil
		}
		return fmt.Errorf("failed to write to gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Object already exists, skipping write.", "key", key)
			return nil
		}
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Delete removes an object. Missing objects are not an error; the caller
// only cares that the key is gone.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Presign issues a time-limited V4 GET URL for browser downloads.
func (s *ObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for gs://%s/%s: %w", s.bucket, key, err)
	}
	return url, nil
}
