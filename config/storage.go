package config

import (
	"context"
	"fmt"

	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/storage"
)

// NewObjectStore builds the image object store for the configured provider
func NewObjectStore(ctx context.Context, cfg *Config, log *logger.Logger) (storage.ObjectStore, error) {
	switch cfg.StorageProvider {
	case StorageFirebase:
		return storage.NewGCSStore(ctx, log, cfg.StorageBucket, cfg.StorageHost, cfg.FirebaseKeyPath)
	case StorageS3:
		return storage.NewS3Store(ctx, cfg.StorageBucket, cfg.AWSRegion)
	case StorageMemory:
		log.Warn("Using in-memory object storage; uploaded images are lost on restart")
		bucket := cfg.StorageBucket
		if bucket == "" {
			bucket = "local"
		}
		return storage.NewMemoryStore(cfg.StorageHost, bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}
