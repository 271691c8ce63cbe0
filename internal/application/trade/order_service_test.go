package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrder(userID uuid.UUID, status trade.OrderStatus) *trade.Order {
	o := &trade.Order{UserID: userID, Status: status, PaymentIntentID: "pi_" + uuid.NewString()}
	o.ID = uuid.New()
	return o
}

func TestOrderService_GetMine(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zap.NewNop())
	userID := uuid.New()
	mine := newOrder(userID, trade.OrderStatusPaid)
	theirs := newOrder(uuid.New(), trade.OrderStatusPaid)

	repo.On("FindByID", mock.Anything, mine.ID).Return(mine, nil)
	repo.On("FindByID", mock.Anything, theirs.ID).Return(theirs, nil)

	resp, err := svc.GetMine(context.Background(), userID, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, resp.ID)

	_, err = svc.GetMine(context.Background(), userID, theirs.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderService_ListMine(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zap.NewNop())
	userID := uuid.New()
	repo.On("FindByUser", mock.Anything, userID).Return([]trade.Order{*newOrder(userID, trade.OrderStatusPaid)}, nil)

	orders, err := svc.ListMine(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_ListAll(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zap.NewNop())

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[trade.FilterStatus] == "shipped" && f.Page == 2 && f.PageSize == 10
	})).Return([]trade.Order{}, int64(11), nil)

	page, err := svc.ListAll(context.Background(), OrderListQuery{Status: "shipped", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	_, err = svc.ListAll(context.Background(), OrderListQuery{Status: "lost"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		from     trade.OrderStatus
		to       string
		wantCode string
	}{
		{"paid to processing", trade.OrderStatusPaid, "processing", ""},
		{"processing to shipped", trade.OrderStatusProcessing, "shipped", ""},
		{"shipped to delivered", trade.OrderStatusShipped, "delivered", ""},
		{"paid to cancelled", trade.OrderStatusPaid, "cancelled", ""},
		{"shipped cannot be cancelled", trade.OrderStatusShipped, "cancelled", "INVALID_STATE"},
		{"delivered is terminal", trade.OrderStatusDelivered, "processing", "INVALID_STATE"},
		{"cancelled is terminal", trade.OrderStatusCancelled, "paid", "INVALID_STATE"},
		{"same status is rejected", trade.OrderStatusPaid, "paid", "INVALID_STATE"},
		{"unknown status", trade.OrderStatusPaid, "lost", "INVALID_STATUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			svc := NewOrderService(repo, zap.NewNop())
			order := newOrder(uuid.New(), tt.from)

			repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
			repo.On("UpdateStatus", mock.Anything, order.ID, tt.from, trade.OrderStatus(tt.to)).Return(nil)

			resp, err := svc.UpdateStatus(context.Background(), order.ID, UpdateOrderStatusRequest{Status: tt.to})
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.to, resp.Status)
				repo.AssertCalled(t, "UpdateStatus", mock.Anything, order.ID, tt.from, trade.OrderStatus(tt.to))
				return
			}
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_UpdateStatus_ConcurrentChange(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zap.NewNop())
	order := newOrder(uuid.New(), trade.OrderStatusPaid)

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("UpdateStatus", mock.Anything, order.ID, trade.OrderStatusPaid, trade.OrderStatusShipped).Return(shared.ErrInvalidState)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateOrderStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
