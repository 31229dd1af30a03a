package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/pageza/apitizers/backend/internal/logger"
)

// GCSStore writes objects to a Firebase Storage (GCS) bucket.
type GCSStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	host   string
}

// NewGCSStore opens a storage client. An empty keyPath falls back to application default credentials.
func NewGCSStore(ctx context.Context, log *logger.Logger, bucket, host, keyPath string) (*GCSStore, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if keyPath != "" {
		opts = append(opts, option.WithCredentialsFile(keyPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "GCSStore")
	serviceLog.Info("Object storage initialized", "bucket", bucket, "host", host)
	return &GCSStore{log: serviceLog, client: client, bucket: bucket, host: host}, nil
}

func (s *GCSStore) Put(ctx context.Context, obj Object) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(obj.Path).NewWriter(ctx)
	w.ContentType = obj.ContentType
	w.Metadata = obj.Metadata
	if _, err := io.Copy(w, bytes.NewReader(obj.Data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	s.log.Debug("Object uploaded", "path", obj.Path, "size", len(obj.Data))
	return DownloadURL(s.host, s.bucket, obj.Path, obj.Metadata[DownloadTokenKey]), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", path, s.bucket, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
