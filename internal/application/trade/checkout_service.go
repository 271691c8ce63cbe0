// Package trade implements checkout and order management.
package trade

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Stripe rejects metadata values longer than this
const maxMetadataValueLen = 500

// CheckoutService prices carts, creates payment intents and commits orders
type CheckoutService struct {
	cartRepo  cart.Repository
	orderRepo trade.OrderRepository
	gateway   trade.PaymentGateway
	pricing   trade.Pricing
	currency  string
	logger    *zap.Logger
	metrics   *telemetry.CheckoutMetrics
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartRepo cart.Repository,
	orderRepo trade.OrderRepository,
	gateway trade.PaymentGateway,
	pricing trade.Pricing,
	currency string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		pricing:   pricing,
		currency:  currency,
		logger:    logger,
	}
}

// SetMetrics attaches checkout counters. Without it nothing is recorded.
func (s *CheckoutService) SetMetrics(metrics *telemetry.CheckoutMetrics) {
	s.metrics = metrics
}

// Summary prices the caller's cart
func (s *CheckoutService) Summary(ctx context.Context, userID uuid.UUID) (*CheckoutSummary, error) {
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, trade.ErrEmptyCart
	}

	totals := s.pricing.Compute(cart.Subtotal(lines))
	itemCount := 0
	for _, l := range lines {
		itemCount += l.Quantity
	}
	return &CheckoutSummary{
		ItemCount:   itemCount,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		TaxRate:     s.pricing.TaxRate,
		Shipping:    totals.Shipping,
		Total:       totals.Total,
		AmountCents: totals.AmountInCents(),
		Currency:    s.currency,
	}, nil
}

// CreatePaymentIntent asks the gateway to charge the cart total. Nothing is stored locally.
func (s *CheckoutService) CreatePaymentIntent(
	ctx context.Context,
	userID uuid.UUID,
	req CreatePaymentIntentRequest,
) (*PaymentIntentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_payment_intent",
		attribute.String(telemetry.SpanAttrUserID, userID.String()))
	defer span.End()

	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64(telemetry.SpanAttrAmount, summary.AmountCents))

	metadata := map[string]string{
		trade.MetadataUserID:   userID.String(),
		trade.MetadataSubtotal: summary.Subtotal.StringFixed(2),
		trade.MetadataTotal:    summary.Total.StringFixed(2),
	}
	if req.ShippingAddress != nil {
		if err := req.ShippingAddress.Validate(); err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(req.ShippingAddress.Normalize())
		if err == nil && len(encoded) <= maxMetadataValueLen {
			metadata[trade.MetadataShippingAddress] = string(encoded)
		}
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, trade.CreatePaymentIntentRequest{
		Amount:   summary.AmountCents,
		Currency: s.currency,
		Metadata: metadata,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Error("Failed to create payment intent",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.SpanAttrPaymentIntentID, intent.ID))
	s.metrics.PaymentIntentCreated(ctx, intent.Currency)
	return &PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		Total:           summary.Total,
	}, nil
}

// CommitOrder turns the caller's cart into a paid order once the payment
// intent has succeeded. Repeated calls for the same intent return the
// existing order; created is false for them.
func (s *CheckoutService) CommitOrder(
	ctx context.Context,
	userID uuid.UUID,
	req CreateOrderRequest,
) (order *OrderResponse, created bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "commit_order",
		attribute.String(telemetry.SpanAttrUserID, userID.String()),
		attribute.String(telemetry.SpanAttrPaymentIntentID, req.PaymentIntentID))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	existing, err := s.orderRepo.FindByPaymentIntentID(ctx, req.PaymentIntentID)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return nil, false, ErrPaymentNotConfirmed
		}
		resp := ToOrderResponse(existing)
		return &resp, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	// An empty cart is rejected before the gateway is contacted. CommitCheckout
	// checks again under lock.
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(lines) == 0 {
		return nil, false, trade.ErrEmptyCart
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		s.log(ctx).Error("Failed to retrieve payment intent",
			zap.String("payment_intent_id", req.PaymentIntentID), zap.Error(err))
		return nil, false, err
	}
	if !intent.Succeeded() || intent.Metadata[trade.MetadataUserID] != userID.String() {
		s.log(ctx).Warn("Payment intent not confirmed for caller",
			zap.String("payment_intent_id", intent.ID),
			zap.String("intent_status", string(intent.Status)))
		return nil, false, ErrPaymentNotConfirmed
	}

	address, err := s.resolveAddress(req.ShippingAddress, intent)
	if err != nil {
		return nil, false, err
	}

	committed, created, err := s.commit(ctx, telemetry.CommitSourceCheckout, userID, intent, address)
	if err != nil {
		return nil, false, err
	}
	span.SetAttributes(attribute.String(telemetry.SpanAttrOrderID, committed.ID.String()))
	resp := ToOrderResponse(committed)
	return &resp, created, nil
}

// commit runs the transactional cart-to-order conversion for a succeeded intent
func (s *CheckoutService) commit(
	ctx context.Context,
	source string,
	userID uuid.UUID,
	intent *trade.PaymentIntent,
	address trade.ShippingAddress,
) (*trade.Order, bool, error) {
	build := func(lines []trade.CheckoutLine) (*trade.Order, error) {
		order, err := trade.NewPaidOrder(userID, intent.ID, address, lines, s.pricing)
		if err != nil {
			return nil, err
		}
		if trade.ToCents(order.Total) != intent.Amount {
			s.log(ctx).Warn("Payment amount does not match cart total",
				zap.String("payment_intent_id", intent.ID),
				zap.Int64("intent_amount", intent.Amount),
				zap.Int64("cart_amount", trade.ToCents(order.Total)))
			return nil, ErrPaymentMismatch
		}
		return order, nil
	}

	order, created, err := s.orderRepo.CommitCheckout(ctx, userID, intent.ID, build)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.metrics.OrderCommitted(ctx, source, intent.Currency, order.Total)
		s.log(ctx).Info("Order committed",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("payment_intent_id", intent.ID),
			zap.String("total", order.Total.StringFixed(2)),
			zap.String("source", source),
			zap.Int("item_count", order.ItemCount()))
	}
	return order, created, nil
}

// resolveAddress prefers the address in the request and falls back to the
// one recorded on the intent at creation time.
func (s *CheckoutService) resolveAddress(requested *trade.ShippingAddress, intent *trade.PaymentIntent) (trade.ShippingAddress, error) {
	if requested != nil {
		return *requested, requested.Validate()
	}
	raw, ok := intent.Metadata[trade.MetadataShippingAddress]
	if !ok || raw == "" {
		return trade.ShippingAddress{}, shared.NewDomainError("INVALID_SHIPPING_ADDRESS", "Shipping address is required")
	}
	var address trade.ShippingAddress
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		return trade.ShippingAddress{}, shared.NewDomainError("INVALID_SHIPPING_ADDRESS", "Shipping address on the payment is unreadable")
	}
	return address, address.Validate()
}

// HandleWebhook verifies a gateway notification and commits the order for
// succeeded intents. Business rejections are logged and acknowledged so the
// gateway stops retrying; infrastructure failures are returned for a retry.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if errors.Is(err, trade.ErrGatewayMalformedEvent) {
		s.log(ctx).Warn("Acknowledging undecodable payment webhook", zap.Error(err))
		s.metrics.WebhookEvent(ctx, "unknown", telemetry.WebhookOutcomeSkipped)
		return nil
	}
	if err != nil {
		s.log(ctx).Warn("Rejected payment webhook", zap.Error(err))
		s.metrics.WebhookEvent(ctx, "unknown", telemetry.WebhookOutcomeRejected)
		return err
	}

	log := s.log(ctx).Zap().With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
	outcome := telemetry.WebhookOutcomeIgnored
	switch event.Type {
	case trade.PaymentEventSucceeded:
		outcome, err = s.handleSucceeded(ctx, log, event.Intent)
	case trade.PaymentEventFailed:
		if event.Intent != nil {
			log = log.With(zap.String("payment_intent_id", event.Intent.ID))
		}
		log.Warn("Payment failed")
	default:
		log.Debug("Ignoring payment event")
	}
	s.metrics.WebhookEvent(ctx, string(event.Type), outcome)
	return err
}

// handleSucceeded commits the order for a paid intent and reports the webhook outcome
func (s *CheckoutService) handleSucceeded(ctx context.Context, log *zap.Logger, intent *trade.PaymentIntent) (string, error) {
	if intent == nil {
		log.Warn("Succeeded event without payment intent")
		return telemetry.WebhookOutcomeSkipped, nil
	}
	log = log.With(zap.String("payment_intent_id", intent.ID))

	userID, err := uuid.Parse(intent.Metadata[trade.MetadataUserID])
	if err != nil {
		log.Warn("Payment intent has no valid user_id metadata")
		return telemetry.WebhookOutcomeSkipped, nil
	}
	address, err := s.resolveAddress(nil, intent)
	if err != nil {
		log.Warn("Payment intent has no usable shipping address; waiting for create-order", zap.Error(err))
		return telemetry.WebhookOutcomeSkipped, nil
	}

	_, created, err := s.commit(ctx, telemetry.CommitSourceWebhook, userID, intent, address)
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		log.Warn("Webhook order not committed", zap.String("reason", domainErr.Code))
		return telemetry.WebhookOutcomeSkipped, nil
	}
	if err != nil {
		log.Error("Failed to commit order from webhook", zap.Error(err))
		return telemetry.WebhookOutcomeFailed, err
	}
	log.Info("Webhook processed", zap.Bool("order_created", created))
	if !created {
		return telemetry.WebhookOutcomeSkipped, nil
	}
	return telemetry.WebhookOutcomeCommitted, nil
}

func (s *CheckoutService) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}
