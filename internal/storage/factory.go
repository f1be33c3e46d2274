package storage

import (
	"context"
	"fmt"
)

// NewDriver creates a storage driver from configuration
func NewDriver(ctx context.Context, cfg *Config) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		basePath := cfg.BasePath
		if basePath == "" {
			basePath = "./storage/uploads"
		}
		return NewLocalDriver(basePath, cfg.URLSecret), nil
	case "s3":
		return NewS3Driver(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
