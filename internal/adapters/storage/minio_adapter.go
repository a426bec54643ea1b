package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/arogyavritti/backend/internal/domain/providers"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

// MinioAdapter implements FileStorage on a single MinIO bucket
type MinioAdapter struct {
	client *minio.Client
	bucket string
}

// NewMinioAdapter creates a new MinIO storage adapter
func NewMinioAdapter(client *minio.Client, bucket string) providers.FileStorage {
	return &MinioAdapter{client: client, bucket: bucket}
}

// Put uploads an object
func (a *MinioAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("failed to store object %s in bucket %s", key, a.bucket), err)
	}
	return nil
}

// URL returns a presigned download link
func (a *MinioAdapter) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", apperrors.NewExternalError(fmt.Sprintf("failed to presign object %s", key), err)
	}
	return u.String(), nil
}
