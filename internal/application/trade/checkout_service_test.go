package trade

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	svc     *CheckoutService
	carts   *MockCartRepository
	orders  *MockOrderRepository
	gateway *MockPaymentGateway
	userID  uuid.UUID
	widget  catalog.Product
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:   new(MockCartRepository),
		orders:  new(MockOrderRepository),
		gateway: new(MockPaymentGateway),
		userID:  uuid.New(),
		widget:  catalog.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), IsActive: true},
	}
	f.widget.ID = uuid.New()
	f.svc = NewCheckoutService(f.carts, f.orders, f.gateway, trade.DefaultPricing(), "usd", zap.NewNop())
	return f
}

func (f *checkoutFixture) twoWidgets() []cart.Line {
	return []cart.Line{{
		CartItem: cart.CartItem{UserID: f.userID, ProductID: f.widget.ID, Quantity: 2},
		Product:  f.widget,
	}}
}

func (f *checkoutFixture) checkoutLines() []trade.CheckoutLine {
	return []trade.CheckoutLine{{
		CartItemID:  uuid.New(),
		ProductID:   f.widget.ID,
		ProductName: f.widget.Name,
		UnitPrice:   f.widget.Price,
		Quantity:    2,
	}}
}

func (f *checkoutFixture) succeededIntent(amount int64) *trade.PaymentIntent {
	return &trade.PaymentIntent{
		ID:       "pi_123",
		Amount:   amount,
		Currency: "usd",
		Status:   trade.PaymentIntentSucceeded,
		Metadata: map[string]string{trade.MetadataUserID: f.userID.String()},
	}
}

func testAddress() *trade.ShippingAddress {
	return &trade.ShippingAddress{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Address: "12 Analytical St",
		City:    "London",
		State:   "LDN",
		ZipCode: "N1",
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestCheckoutService_Summary(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)

	summary, err := f.svc.Summary(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, "20.00", summary.Subtotal.StringFixed(2))
	assert.Equal(t, "1.60", summary.Tax.StringFixed(2))
	assert.Equal(t, "0.00", summary.Shipping.StringFixed(2))
	assert.Equal(t, "21.60", summary.Total.StringFixed(2))
	assert.Equal(t, int64(2160), summary.AmountCents)
}

func TestCheckoutService_Summary_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindByUser", mock.Anything, f.userID).Return([]cart.Line{}, nil)

	_, err := f.svc.Summary(context.Background(), f.userID)
	assert.ErrorIs(t, err, trade.ErrEmptyCart)
}

func TestCheckoutService_CreatePaymentIntent(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.gateway.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(req trade.CreatePaymentIntentRequest) bool {
		return req.Amount == 2160 &&
			req.Currency == "usd" &&
			req.Metadata[trade.MetadataUserID] == f.userID.String() &&
			req.Metadata[trade.MetadataTotal] == "21.60" &&
			req.Metadata[trade.MetadataShippingAddress] != ""
	})).Return(&trade.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret", Amount: 2160, Currency: "usd"}, nil)

	resp, err := f.svc.CreatePaymentIntent(context.Background(), f.userID, CreatePaymentIntentRequest{ShippingAddress: testAddress()})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.Equal(t, "pi_123", resp.PaymentIntentID)
	assert.Equal(t, int64(2160), resp.Amount)
	f.gateway.AssertExpectations(t)
}

func TestCheckoutService_CreatePaymentIntent_Errors(t *testing.T) {
	t.Run("empty cart never reaches the gateway", func(t *testing.T) {
		f := newCheckoutFixture()
		f.carts.On("FindByUser", mock.Anything, f.userID).Return([]cart.Line{}, nil)

		_, err := f.svc.CreatePaymentIntent(context.Background(), f.userID, CreatePaymentIntentRequest{})
		assert.ErrorIs(t, err, trade.ErrEmptyCart)
		f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
	})

	t.Run("gateway failure is returned", func(t *testing.T) {
		f := newCheckoutFixture()
		gatewayErr := errors.Join(trade.ErrGatewayRequestFailed, errors.New("card declined"))
		f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
		f.gateway.On("CreatePaymentIntent", mock.Anything, mock.Anything).Return(nil, gatewayErr)

		_, err := f.svc.CreatePaymentIntent(context.Background(), f.userID, CreatePaymentIntentRequest{})
		assert.ErrorIs(t, err, trade.ErrGatewayRequestFailed)
	})

	t.Run("incomplete address is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)

		_, err := f.svc.CreatePaymentIntent(context.Background(), f.userID,
			CreatePaymentIntentRequest{ShippingAddress: &trade.ShippingAddress{Name: "Ada"}})
		assertDomainCode(t, err, "INVALID_SHIPPING_ADDRESS")
	})
}

func TestCheckoutService_CommitOrder(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(f.succeededIntent(2160), nil)
	f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(f.checkoutLines(), nil)

	order, created, err := f.svc.CommitOrder(ctx, f.userID, CreateOrderRequest{
		PaymentIntentID: "pi_123",
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, string(trade.OrderStatusPaid), order.Status)
	assert.Equal(t, "21.60", order.Total.StringFixed(2))
	assert.Equal(t, "US", order.ShippingAddress.Country)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, "10.00", order.Items[0].Price.StringFixed(2))
}

func TestCheckoutService_CommitOrder_Idempotent(t *testing.T) {
	f := newCheckoutFixture()
	existing := &trade.Order{UserID: f.userID, Status: trade.OrderStatusPaid, PaymentIntentID: "pi_123"}
	existing.ID = uuid.New()
	f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(existing, nil)

	order, created, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{PaymentIntentID: "pi_123"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, order.ID)
	f.gateway.AssertNotCalled(t, "GetPaymentIntent", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_CommitOrder_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		intent func(f *checkoutFixture) *trade.PaymentIntent
		code   string
	}{
		{
			name: "intent not succeeded",
			intent: func(f *checkoutFixture) *trade.PaymentIntent {
				pi := f.succeededIntent(2160)
				pi.Status = trade.PaymentIntentRequiresPaymentMethod
				return pi
			},
			code: "PAYMENT_NOT_CONFIRMED",
		},
		{
			name: "intent belongs to another user",
			intent: func(f *checkoutFixture) *trade.PaymentIntent {
				pi := f.succeededIntent(2160)
				pi.Metadata[trade.MetadataUserID] = uuid.NewString()
				return pi
			},
			code: "PAYMENT_NOT_CONFIRMED",
		},
		{
			name: "amount differs from cart total",
			intent: func(f *checkoutFixture) *trade.PaymentIntent {
				return f.succeededIntent(1000)
			},
			code: "PAYMENT_MISMATCH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
			f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
			f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(tt.intent(f), nil)
			f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(f.checkoutLines(), nil)

			order, created, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{
				PaymentIntentID: "pi_123",
				ShippingAddress: testAddress(),
			})
			assert.Nil(t, order)
			assert.False(t, created)
			assertDomainCode(t, err, tt.code)
		})
	}
}

func TestCheckoutService_CommitOrder_EmptyCart(t *testing.T) {
	tests := []struct {
		name      string
		intent    *trade.PaymentIntent
		intentErr error
	}{
		{name: "unknown intent", intentErr: trade.ErrGatewayRequestFailed},
		{name: "gateway not configured", intentErr: trade.ErrGatewayNotConfigured},
		{name: "intent not succeeded", intent: &trade.PaymentIntent{ID: "pi_123", Status: trade.PaymentIntentRequiresPaymentMethod}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
			f.carts.On("FindByUser", mock.Anything, f.userID).Return([]cart.Line{}, nil)
			f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(tt.intent, tt.intentErr)

			_, created, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{
				PaymentIntentID: "pi_123",
				ShippingAddress: testAddress(),
			})
			assert.ErrorIs(t, err, trade.ErrEmptyCart)
			assert.False(t, created)
			f.gateway.AssertNotCalled(t, "GetPaymentIntent", mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_CommitOrder_CartEmptiedBeforeCommit(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(f.succeededIntent(2160), nil)
	f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return([]trade.CheckoutLine{}, nil)

	_, _, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{
		PaymentIntentID: "pi_123",
		ShippingAddress: testAddress(),
	})
	assert.ErrorIs(t, err, trade.ErrEmptyCart)
}

func TestCheckoutService_CommitOrder_AddressFromIntent(t *testing.T) {
	f := newCheckoutFixture()
	intent := f.succeededIntent(2160)
	intent.Metadata[trade.MetadataShippingAddress] = `{"name":"Ada","email":"ada@example.com","address":"1 St","city":"London","state":"LDN","zipCode":"N1","country":"GB"}`

	f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(intent, nil)
	f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(f.checkoutLines(), nil)

	order, _, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{PaymentIntentID: "pi_123"})
	require.NoError(t, err)
	assert.Equal(t, "GB", order.ShippingAddress.Country)
}

func TestCheckoutService_CommitOrder_MissingAddress(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(nil, shared.ErrNotFound)
	f.carts.On("FindByUser", mock.Anything, f.userID).Return(f.twoWidgets(), nil)
	f.gateway.On("GetPaymentIntent", mock.Anything, "pi_123").Return(f.succeededIntent(2160), nil)

	_, _, err := f.svc.CommitOrder(context.Background(), f.userID, CreateOrderRequest{PaymentIntentID: "pi_123"})
	assertDomainCode(t, err, "INVALID_SHIPPING_ADDRESS")
	f.orders.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_HandleWebhook(t *testing.T) {
	payload := []byte(`{}`)

	t.Run("invalid signature", func(t *testing.T) {
		f := newCheckoutFixture()
		f.gateway.On("ParseWebhook", payload, "bad").Return(nil, trade.ErrGatewayInvalidCallback)

		err := f.svc.HandleWebhook(context.Background(), payload, "bad")
		assert.ErrorIs(t, err, trade.ErrGatewayInvalidCallback)
	})

	t.Run("undecodable event is acknowledged", func(t *testing.T) {
		f := newCheckoutFixture()
		f.gateway.On("ParseWebhook", payload, "sig").
			Return(nil, fmt.Errorf("%w: event evt_9: bad amount", trade.ErrGatewayMalformedEvent))

		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.orders.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("succeeded intent commits the order", func(t *testing.T) {
		f := newCheckoutFixture()
		intent := f.succeededIntent(2160)
		intent.Metadata[trade.MetadataShippingAddress] = `{"name":"Ada","email":"ada@example.com","address":"1 St","city":"London","state":"LDN","zipCode":"N1"}`
		f.gateway.On("ParseWebhook", payload, "sig").Return(&trade.PaymentEvent{
			ID: "evt_1", Type: trade.PaymentEventSucceeded, Intent: intent,
		}, nil)
		f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(f.checkoutLines(), nil)

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.orders.AssertCalled(t, "CommitCheckout", mock.Anything, f.userID, "pi_123")
	})

	t.Run("business rejection is acknowledged", func(t *testing.T) {
		f := newCheckoutFixture()
		intent := f.succeededIntent(2160)
		intent.Metadata[trade.MetadataShippingAddress] = `{"name":"Ada","email":"ada@example.com","address":"1 St","city":"London","state":"LDN","zipCode":"N1"}`
		f.gateway.On("ParseWebhook", payload, "sig").Return(&trade.PaymentEvent{
			ID: "evt_2", Type: trade.PaymentEventSucceeded, Intent: intent,
		}, nil)
		f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return([]trade.CheckoutLine{}, nil)

		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
	})

	t.Run("database failure is returned for retry", func(t *testing.T) {
		f := newCheckoutFixture()
		intent := f.succeededIntent(2160)
		intent.Metadata[trade.MetadataShippingAddress] = `{"name":"Ada","email":"ada@example.com","address":"1 St","city":"London","state":"LDN","zipCode":"N1"}`
		dbErr := errors.New("connection refused")
		f.gateway.On("ParseWebhook", payload, "sig").Return(&trade.PaymentEvent{
			ID: "evt_3", Type: trade.PaymentEventSucceeded, Intent: intent,
		}, nil)
		f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(nil, dbErr)

		assert.ErrorIs(t, f.svc.HandleWebhook(context.Background(), payload, "sig"), dbErr)
	})

	t.Run("intent without address waits for create-order", func(t *testing.T) {
		f := newCheckoutFixture()
		f.gateway.On("ParseWebhook", payload, "sig").Return(&trade.PaymentEvent{
			ID: "evt_4", Type: trade.PaymentEventSucceeded, Intent: f.succeededIntent(2160),
		}, nil)

		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.orders.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed and unrelated events are acknowledged", func(t *testing.T) {
		f := newCheckoutFixture()
		f.gateway.On("ParseWebhook", payload, "failed").Return(&trade.PaymentEvent{
			ID: "evt_5", Type: trade.PaymentEventFailed, Intent: &trade.PaymentIntent{ID: "pi_9"},
		}, nil)
		f.gateway.On("ParseWebhook", payload, "other").Return(&trade.PaymentEvent{
			ID: "evt_6", Type: "charge.refunded",
		}, nil)

		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "failed"))
		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "other"))
	})
}

func TestCheckoutService_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	metrics, err := telemetry.NewCheckoutMetrics(provider.Meter("test"))
	require.NoError(t, err)

	payload := []byte(`{}`)
	f := newCheckoutFixture()
	f.svc.SetMetrics(metrics)
	intent := f.succeededIntent(2160)
	intent.Metadata[trade.MetadataShippingAddress] = `{"name":"Ada","email":"ada@example.com","address":"1 St","city":"London","state":"LDN","zipCode":"N1"}`
	f.gateway.On("ParseWebhook", payload, "sig").Return(&trade.PaymentEvent{
		ID: "evt_1", Type: trade.PaymentEventSucceeded, Intent: intent,
	}, nil)
	f.orders.On("CommitCheckout", mock.Anything, f.userID, "pi_123").Return(f.checkoutLines(), nil)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}

	orders := sums["storefront.orders.committed"]
	require.Len(t, orders.DataPoints, 1)
	source, _ := orders.DataPoints[0].Attributes.Value(attribute.Key("source"))
	assert.Equal(t, telemetry.CommitSourceWebhook, source.AsString())

	events := sums["storefront.webhook.events"]
	require.Len(t, events.DataPoints, 1)
	outcome, _ := events.DataPoints[0].Attributes.Value(attribute.Key("outcome"))
	assert.Equal(t, telemetry.WebhookOutcomeCommitted, outcome.AsString())
}
