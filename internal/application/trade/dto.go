package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// CheckoutSummary is the server-computed price of the caller's cart
type CheckoutSummary struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	AmountCents int64           `json:"amountCents"`
	Currency    string          `json:"currency"`
}

// CreatePaymentIntentRequest optionally carries the shipping address so the
// webhook can commit the order without a create-order call.
type CreatePaymentIntentRequest struct {
	ShippingAddress *trade.ShippingAddress `json:"shippingAddress"`
}

// PaymentIntentResponse is what the client needs to confirm the payment
type PaymentIntentResponse struct {
	ClientSecret    string          `json:"clientSecret"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	Total           decimal.Decimal `json:"total"`
}

// CreateOrderRequest commits the cart for a confirmed payment intent
type CreateOrderRequest struct {
	PaymentIntentID string                 `json:"paymentIntentId" binding:"required,max=255"`
	ShippingAddress *trade.ShippingAddress `json:"shippingAddress"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid processing shipped delivered cancelled"`
}

// OrderListQuery holds the admin order listing parameters
type OrderListQuery struct {
	Status   string
	Page     int
	PageSize int
}

// OrderItemResponse represents a purchased line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"userId"`
	Status          string                `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	Shipping        decimal.Decimal       `json:"shipping"`
	Total           decimal.Decimal       `json:"total"`
	PaymentIntentID string                `json:"paymentIntentId"`
	ShippingAddress trade.ShippingAddress `json:"shippingAddress"`
	Items           []OrderItemResponse   `json:"items"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Shipping:        o.Shipping,
		Total:           o.Total,
		PaymentIntentID: o.PaymentIntentID,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
