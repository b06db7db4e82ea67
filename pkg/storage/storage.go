package storage

import (
	"context"
	"time"
)

type S3Configs struct {
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	SSLDisabled bool
}

// Storage hands out pre-authorized URLs against an object store. Only
// the keys are ever persisted; URLs are minted on demand and expire.
type Storage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiration time.Duration) (string, error)
	GenerateDownloadURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
