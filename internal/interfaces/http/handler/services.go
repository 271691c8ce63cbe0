package handler

import (
	"context"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	reportapp "github.com/storefront/backend/internal/application/report"
	sourcingapp "github.com/storefront/backend/internal/application/sourcing"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/shared"
)

// The handlers depend on these narrow views of the application services.

// AuthService is implemented by identity.AuthService
type AuthService interface {
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.UserResponse, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input identityapp.UpdateProfileInput) (*identityapp.UserResponse, error)
}

// ProductService is implemented by catalog.ProductService
type ProductService interface {
	ListActive(ctx context.Context, q catalogapp.ProductListQuery) (shared.Paginated[catalogapp.ProductResponse], error)
	ListAll(ctx context.Context, q catalogapp.ProductListQuery) (shared.Paginated[catalogapp.ProductResponse], error)
	GetActive(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateImageUpload(ctx context.Context, id uuid.UUID, contentType string) (*catalogapp.ImageUploadResponse, error)
}

// CartService is implemented by cart.CartService
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	AddToCart(ctx context.Context, userID uuid.UUID, req cartapp.AddToCartRequest) (*cartapp.CartItemResponse, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req cartapp.UpdateCartItemRequest) (*cartapp.CartItemResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService is implemented by trade.CheckoutService
type CheckoutService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*tradeapp.CheckoutSummary, error)
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req tradeapp.CreatePaymentIntentRequest) (*tradeapp.PaymentIntentResponse, error)
	CommitOrder(ctx context.Context, userID uuid.UUID, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, bool, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// OrderService is implemented by trade.OrderService
type OrderService interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]tradeapp.OrderResponse, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	ListAll(ctx context.Context, q tradeapp.OrderListQuery) (shared.Paginated[tradeapp.OrderResponse], error)
	Get(ctx context.Context, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req tradeapp.UpdateOrderStatusRequest) (*tradeapp.OrderResponse, error)
}

// ProductRequestService is implemented by sourcing.ProductRequestService
type ProductRequestService interface {
	Submit(ctx context.Context, userID uuid.UUID, req sourcingapp.SubmitRequest) (*sourcingapp.ProductRequestResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]sourcingapp.ProductRequestResponse, error)
	ListAll(ctx context.Context, q sourcingapp.ListQuery) (shared.Paginated[sourcingapp.ProductRequestResponse], error)
	Respond(ctx context.Context, id uuid.UUID, req sourcingapp.RespondRequest) (*sourcingapp.ProductRequestResponse, error)
}

// StatsService is implemented by report.StatsService
type StatsService interface {
	Dashboard(ctx context.Context) (*reportapp.DashboardStats, error)
}

var (
	_ AuthService           = (*identityapp.AuthService)(nil)
	_ ProductService        = (*catalogapp.ProductService)(nil)
	_ CartService           = (*cartapp.CartService)(nil)
	_ CheckoutService       = (*tradeapp.CheckoutService)(nil)
	_ OrderService          = (*tradeapp.OrderService)(nil)
	_ ProductRequestService = (*sourcingapp.ProductRequestService)(nil)
	_ StatsService          = (*reportapp.StatsService)(nil)
)
