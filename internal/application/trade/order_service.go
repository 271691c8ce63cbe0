package trade

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService serves order history and back office status changes
type OrderService struct {
	orderRepo trade.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, logger: logger}
}

// ListMine returns the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// GetMine returns one of the caller's orders. Orders of other users are not found.
func (s *OrderService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListAll returns a page of all orders, optionally narrowed to one status
func (s *OrderService) ListAll(ctx context.Context, q OrderListQuery) (shared.Paginated[OrderResponse], error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 && q.PageSize <= 100 {
		filter.PageSize = q.PageSize
	}
	if status := strings.TrimSpace(q.Status); status != "" {
		if !trade.OrderStatus(status).IsValid() {
			return shared.Paginated[OrderResponse]{}, shared.NewDomainError("INVALID_STATUS", "Invalid order status: "+status)
		}
		filter = filter.WithFilter(trade.FilterStatus, status)
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// Get returns any order
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateStatus moves an order along its lifecycle. The write is conditional
// on the status read here, so a concurrent change makes it fail with INVALID_STATE.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders", "update_status",
		attribute.String(telemetry.SpanAttrOrderID, orderID.String()),
		attribute.String(telemetry.SpanAttrOrderStatus, req.Status))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, from, order.Status); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", order.Status.String()))
	out := ToOrderResponse(order)
	return &out, nil
}
