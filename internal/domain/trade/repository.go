package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Filter keys understood by OrderRepository
const (
	FilterStatus = "status"
)

// OrderBuilder turns the locked cart lines into the order to insert.
// Returning an error aborts the commit.
type OrderBuilder func(lines []CheckoutLine) (*Order, error)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists a user's orders with items, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// FindAll lists orders with items for the back office
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// FindByPaymentIntentID finds the order committed for a payment intent
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Order, error)

	// UpdateStatus sets the status if the order is still in from.
	// Returns shared.ErrInvalidState when the order moved concurrently.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to OrderStatus) error

	// Revenue sums the totals of paid and later orders, excluding cancelled ones
	Revenue(ctx context.Context) (decimal.Decimal, error)

	// Count counts all orders
	Count(ctx context.Context) (int64, error)

	// CommitCheckout reads the user's cart, builds the order, inserts it with
	// its items and deletes the checked out cart lines, all in one transaction.
	// If an order already exists for the payment intent it is returned with
	// created=false and nothing is written.
	CommitCheckout(ctx context.Context, userID uuid.UUID, paymentIntentID string, build OrderBuilder) (order *Order, created bool, err error)
}
