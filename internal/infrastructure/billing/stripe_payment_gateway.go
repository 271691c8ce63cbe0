package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripePaymentGateway implements trade.PaymentGateway with Stripe payment intents
type StripePaymentGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
	currency      string
	logger        *zap.Logger
}

// StripeOption customizes the gateway
type StripeOption func(*StripePaymentGateway)

// WithBackend routes API calls through b instead of the default Stripe backend
func WithBackend(b stripe.Backend) StripeOption {
	return func(g *StripePaymentGateway) {
		g.intents.B = b
	}
}

// NewStripePaymentGateway creates a gateway bound to the configured account
func NewStripePaymentGateway(cfg config.StripeConfig, logger *zap.Logger, opts ...StripeOption) *StripePaymentGateway {
	g := &StripePaymentGateway{
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
		currency:      strings.ToLower(cfg.Currency),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreatePaymentIntent creates an intent with automatic payment methods
func (g *StripePaymentGateway) CreatePaymentIntent(ctx context.Context, req trade.CreatePaymentIntentRequest) (*trade.PaymentIntent, error) {
	if g.intents.Key == "" {
		return nil, trade.ErrGatewayNotConfigured
	}
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe payment intent",
			zap.Int64("amount", req.Amount),
			zap.Error(err))
		return nil, wrapStripeError("create payment intent", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount))
	return toPaymentIntent(pi), nil
}

// GetPaymentIntent retrieves an intent by ID
func (g *StripePaymentGateway) GetPaymentIntent(ctx context.Context, id string) (*trade.PaymentIntent, error) {
	if g.intents.Key == "" {
		return nil, trade.ErrGatewayNotConfigured
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.intents.Get(id, params)
	if err != nil {
		g.logger.Error("Failed to retrieve Stripe payment intent",
			zap.String("payment_intent_id", id),
			zap.Error(err))
		return nil, wrapStripeError("retrieve payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (g *StripePaymentGateway) ParseWebhook(payload []byte, signature string) (*trade.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, trade.ErrGatewayNotConfigured
	}

	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		g.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", trade.ErrGatewayInvalidCallback, err)
	}

	out := &trade.PaymentEvent{
		ID:   event.ID,
		Type: trade.PaymentEventType(event.Type),
	}
	if strings.HasPrefix(string(event.Type), "payment_intent.") && event.Data != nil {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			g.logger.Warn("Failed to decode payment intent from webhook event",
				zap.String("event_id", event.ID), zap.Error(err))
			return nil, fmt.Errorf("%w: event %s: %v", trade.ErrGatewayMalformedEvent, event.ID, err)
		}
		out.Intent = toPaymentIntent(&pi)
	}
	return out, nil
}

func toPaymentIntent(pi *stripe.PaymentIntent) *trade.PaymentIntent {
	metadata := make(map[string]string, len(pi.Metadata))
	for k, v := range pi.Metadata {
		metadata[k] = v
	}
	return &trade.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       trade.PaymentIntentStatus(pi.Status),
		Metadata:     metadata,
	}
}

// wrapStripeError keeps the provider message so callers can surface it
func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return fmt.Errorf("%w: stripe: %s: %s", trade.ErrGatewayRequestFailed, op, stripeErr.Msg)
	}
	return fmt.Errorf("%w: stripe: %s: %v", trade.ErrGatewayRequestFailed, op, err)
}

var _ trade.PaymentGateway = (*StripePaymentGateway)(nil)
