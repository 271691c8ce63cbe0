// Package cart implements the shopping cart use cases.
package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages each user's cart rows
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart with product data and subtotal
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(lines)
	return &resp, nil
}

// AddToCart adds units of an active product. An existing row for the
// product has the units added to its quantity.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req AddToCartRequest) (*CartItemResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if _, err := s.productRepo.FindActiveByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	item, err := cart.NewCartItem(userID, req.ProductID, quantity)
	if err != nil {
		return nil, err
	}
	stored, err := s.cartRepo.Add(ctx, item)
	if err != nil {
		return nil, err
	}

	if stored.Quantity != quantity {
		s.logger.Info("Cart row merged",
			zap.String("user_id", userID.String()),
			zap.String("product_id", req.ProductID.String()),
			zap.Int("quantity", stored.Quantity))
	}
	resp := ToCartItemResponse(stored)
	return &resp, nil
}

// UpdateItem overwrites the quantity of one of the user's rows
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateCartItemRequest) (*CartItemResponse, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
		return nil, err
	}
	resp := ToCartItemResponse(item)
	return &resp, nil
}

// RemoveItem deletes one of the user's rows
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, itemID)
}

// ClearCart deletes every row of the user
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.ClearByUser(ctx, userID)
}

// ownedItem loads a row, reporting rows of other users as not found
func (s *CartService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}
