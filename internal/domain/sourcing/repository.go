package sourcing

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Filter keys understood by ProductRequestRepository
const (
	FilterStatus = "status"
)

// ProductRequestRepository defines the interface for product request persistence
type ProductRequestRepository interface {
	Create(ctx context.Context, request *ProductRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductRequest, error)
	// FindByUser lists a user's requests, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]ProductRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductRequest, int64, error)
	// SaveResponse stores the answer only while the stored request is still
	// pending. A request answered in the meantime yields shared.ErrInvalidState.
	SaveResponse(ctx context.Context, request *ProductRequest) error
	CountByStatus(ctx context.Context, status RequestStatus) (int64, error)
}
