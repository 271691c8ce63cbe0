package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddToCartRequest represents a request to add units of a product
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=1000"`
}

// UpdateCartItemRequest overwrites the quantity of a cart row
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=1000"`
}

// CartItemResponse represents a cart row
type CartItemResponse struct {
	ID        uuid.UUID                   `json:"id"`
	ProductID uuid.UUID                   `json:"productId"`
	Quantity  int                         `json:"quantity"`
	LineTotal *decimal.Decimal            `json:"lineTotal,omitempty"`
	Product   *catalogapp.ProductResponse `json:"product,omitempty"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// CartResponse is the caller's cart with its computed subtotal
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

// ToCartItemResponse converts a bare cart row
func ToCartItemResponse(i *cart.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        i.ID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ToCartResponse converts cart lines joined with their products
func ToCartResponse(lines []cart.Line) CartResponse {
	resp := CartResponse{
		Items:    make([]CartItemResponse, len(lines)),
		Subtotal: cart.Subtotal(lines).Round(2),
	}
	for i := range lines {
		item := ToCartItemResponse(&lines[i].CartItem)
		lineTotal := lines[i].LineTotal()
		product := catalogapp.ToProductResponse(&lines[i].Product)
		item.LineTotal = &lineTotal
		item.Product = &product
		resp.Items[i] = item
		resp.ItemCount += lines[i].Quantity
	}
	return resp
}
