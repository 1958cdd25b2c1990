package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/stockroom/internal/config"
)

const (
	DriverMinio = "minio"
	DriverS3    = "s3"
	DriverLocal = "local"
)

// New builds the archive backend selected by ARCHIVE_DRIVER.
func New(ctx context.Context, cfg config.ArchiveConfig) (ObjectStorage, error) {
	remote := MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMinio:
		return NewMinioClient(ctx, remote)
	case DriverS3:
		return NewS3Client(remote)
	case DriverLocal:
		return NewLocalClient(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}
