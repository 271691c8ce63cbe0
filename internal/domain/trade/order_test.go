package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() ShippingAddress {
	return ShippingAddress{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Address: "1 Analytical Way",
		City:    "London",
		State:   "LDN",
		ZipCode: "10001",
	}
}

func widgetLine(qty int) CheckoutLine {
	return CheckoutLine{
		CartItemID:  uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Widget",
		UnitPrice:   decimal.RequireFromString("10.00"),
		Quantity:    qty,
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("refunded").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPaid, OrderStatusProcessing, true},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusDelivered, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusPaid, false},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPaid, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPaidOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("computes totals with tax", func(t *testing.T) {
		order, err := NewPaidOrder(userID, "pi_123", testAddress(), []CheckoutLine{widgetLine(2)}, DefaultPricing())

		require.NoError(t, err)
		assert.Equal(t, OrderStatusPaid, order.Status)
		assert.Equal(t, "20.00", order.Subtotal.StringFixed(2))
		assert.Equal(t, "1.60", order.Tax.StringFixed(2))
		assert.Equal(t, "0.00", order.Shipping.StringFixed(2))
		assert.Equal(t, "21.60", order.Total.StringFixed(2))
		assert.Equal(t, "pi_123", order.PaymentIntentID)
		assert.Equal(t, "US", order.ShippingAddress.Country)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.Equal(t, "10.00", order.Items[0].Price.StringFixed(2))
		assert.Equal(t, 2, order.ItemCount())
	})

	t.Run("fails on empty cart", func(t *testing.T) {
		_, err := NewPaidOrder(userID, "pi_123", testAddress(), nil, DefaultPricing())

		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("requires payment intent", func(t *testing.T) {
		_, err := NewPaidOrder(userID, "", testAddress(), []CheckoutLine{widgetLine(1)}, DefaultPricing())

		assert.Error(t, err)
	})

	t.Run("requires shipping address fields", func(t *testing.T) {
		addr := testAddress()
		addr.City = " "

		_, err := NewPaidOrder(userID, "pi_123", addr, []CheckoutLine{widgetLine(1)}, DefaultPricing())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "city")
	})

	t.Run("keeps explicit country", func(t *testing.T) {
		addr := testAddress()
		addr.Country = "CA"

		order, err := NewPaidOrder(userID, "pi_123", addr, []CheckoutLine{widgetLine(1)}, DefaultPricing())
		require.NoError(t, err)
		assert.Equal(t, "CA", order.ShippingAddress.Country)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	order, err := NewPaidOrder(uuid.New(), "pi_1", testAddress(), []CheckoutLine{widgetLine(1)}, DefaultPricing())
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(OrderStatusShipped))
	assert.Equal(t, OrderStatusShipped, order.Status)

	require.NoError(t, order.TransitionTo(OrderStatusDelivered))
	assert.True(t, order.Status.IsTerminal())

	err = order.TransitionTo(OrderStatusCancelled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot change order status")
	assert.Equal(t, OrderStatusDelivered, order.Status)

	assert.Error(t, order.TransitionTo(OrderStatus("lost")))
}
