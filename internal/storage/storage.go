package storage

import (
	"context"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage captures the S3-style operations used to archive exports.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	DownloadObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Location names where objects land, e.g. the bucket.
	Location() string
}
