package catalog

import (
	"context"
	"time"
)

// ImageStorage issues upload URLs for product images
type ImageStorage interface {
	// GenerateUploadURL presigns a PUT of contentType to key
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL returns the address the storefront displays for key
	PublicURL(key string) string
}
