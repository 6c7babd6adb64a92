package media

import (
	"context"
	"time"
)

// ObjectStorageService defines the interface for object storage operations
// This interface is implemented by the infrastructure layer (S3, MinIO, etc.)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// Upload writes server-generated bytes (QR codes, rendered PDFs)
	// directly to storage without a presigned round trip
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}
