package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/chartmuseum/storage"
)

// BackendClient implements ObjectStorage on top of a chartmuseum storage
// backend: the local filesystem, or an S3 bucket reached through the AWS SDK.
type BackendClient struct {
	backend  storage.Backend
	location string
}

var _ ObjectStorage = (*BackendClient)(nil)

// NewLocalClient archives into a directory on disk.
func NewLocalClient(dir string) (*BackendClient, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating archive directory %s: %w", dir, err)
	}

	return &BackendClient{
		backend:  storage.NewLocalFilesystemBackend(dir),
		location: dir,
	}, nil
}

// NewS3Client archives into an S3-compatible bucket with path-style
// addressing.
func NewS3Client(cfg MinioConfig) (*BackendClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "https"
		if !cfg.UseSSL {
			scheme = "http"
		}
		endpoint = fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(cfg.Endpoint, "//"))
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	// the AWS session inside the backend reads credentials from the environment
	os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretKey)
	os.Setenv("AWS_REGION", region)
	os.Setenv("AWS_DEFAULT_REGION", region)

	backend := storage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		"", // no prefix
		region,
		endpoint,
		"",
		&storage.AmazonS3Options{
			S3ForcePathStyle: awsBool(true),
		},
	)

	return &BackendClient{backend: backend, location: cfg.Bucket}, nil
}

func (c *BackendClient) UploadObject(ctx context.Context, key string, data []byte, contentType string) error {
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("archive upload %s failed: %w", key, err)
	}
	return nil
}

func (c *BackendClient) DownloadObject(ctx context.Context, key string) ([]byte, error) {
	object, err := c.backend.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("archive get %s failed: %w", key, err)
	}
	return object.Content, nil
}

// ListObjects lists all objects under prefix. Backends report paths
// relative to the prefix, so keys are rebuilt in full.
func (c *BackendClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("archive list failed: %w", err)
	}

	results := make([]ObjectInfo, 0, len(files))
	for _, object := range files {
		results = append(results, ObjectInfo{
			Key:          path.Join(prefix, object.Path),
			Size:         int64(len(object.Content)),
			LastModified: object.LastModified,
		})
	}
	return results, nil
}

func (c *BackendClient) Location() string {
	return c.location
}

func awsBool(v bool) *bool {
	return &v
}
