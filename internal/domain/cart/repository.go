package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// FindByUser returns the user's cart lines joined with products, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Line, error)

	// FindByID finds a single cart item
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// Add inserts the item or, when the (user, product) row exists,
	// adds item.Quantity to it in one statement. Returns the stored row.
	Add(ctx context.Context, item *CartItem) (*CartItem, error)

	// UpdateQuantity overwrites the quantity of an item
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearByUser removes every item of the user
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}
