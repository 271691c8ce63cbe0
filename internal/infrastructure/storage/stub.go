package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// StubImageStorage is used when object storage is disabled.
// URLs point at BaseURL and nothing is ever stored.
type StubImageStorage struct {
	BaseURL string
}

// NewStubImageStorage creates a stub rooted at https://storage.example.com
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{BaseURL: "https://storage.example.com"}
}

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// GenerateUploadURL returns a fake upload URL
func (s *StubImageStorage) GenerateUploadURL(
	_ context.Context,
	key, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return strings.TrimRight(s.BaseURL, "/") + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns the fake public address of key
func (s *StubImageStorage) PublicURL(key string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + key
}
