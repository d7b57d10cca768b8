package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/go-demo/forum/internal/config"
	"go.uber.org/zap"
)

// Store persists uploaded objects and returns their public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		store, err := NewLocalStore(cfg.LocalDir, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local storage", zap.String("dir", cfg.LocalDir))
		return store, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Using S3 storage",
			zap.String("bucket", cfg.S3Bucket),
			zap.String("endpoint", cfg.S3Endpoint),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
