package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/questbelief/backend/pkg/errorx"
)

type MockStorage struct {
	GenerateUploadURLFunc   func(ctx context.Context, key, contentType string, expiration time.Duration) (string, error)
	GenerateDownloadURLFunc func(ctx context.Context, key string, expiration time.Duration) (string, error)
	DeleteFunc              func(ctx context.Context, key string) error
}

// NewMockStorage returns a storage whose URLs embed the object key, so
// tests can assert on the generated keys without a real bucket.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		GenerateUploadURLFunc: func(_ context.Context, key, _ string, _ time.Duration) (string, error) {
			return fmt.Sprintf("https://storage.test/upload/%s", key), nil
		},
		GenerateDownloadURLFunc: func(_ context.Context, key string, _ time.Duration) (string, error) {
			return fmt.Sprintf("https://storage.test/download/%s", key), nil
		},
	}
}

func (m *MockStorage) GenerateUploadURL(
	ctx context.Context, key, contentType string, expiration time.Duration,
) (string, error) {
	if m.GenerateUploadURLFunc != nil {
		return m.GenerateUploadURLFunc(ctx, key, contentType, expiration)
	}

	return "", errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) GenerateDownloadURL(
	ctx context.Context, key string, expiration time.Duration,
) (string, error) {
	if m.GenerateDownloadURLFunc != nil {
		return m.GenerateDownloadURLFunc(ctx, key, expiration)
	}

	return "", errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}
