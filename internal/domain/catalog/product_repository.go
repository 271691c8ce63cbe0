package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Filter keys understood by ProductRepository
const (
	FilterCategory = "category"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, active or not
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveByID finds a product visible to customers
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActive lists products visible to customers
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// FindAll lists every product including soft-deleted ones
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// Categories returns the distinct categories of active products
	Categories(ctx context.Context) ([]string, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SoftDelete marks a product inactive
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// CountLowStock counts active products with stock under threshold
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}
