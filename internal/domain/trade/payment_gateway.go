package trade

import (
	"context"
	"errors"
)

// Payment gateway errors. ErrGatewayMalformedEvent marks a verified callback
// whose body cannot be decoded; redelivery will not change it.
var (
	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidCallback = errors.New("payment: invalid callback signature")
	ErrGatewayMalformedEvent  = errors.New("payment: malformed callback event")
)

// PaymentIntentStatus mirrors the provider's intent lifecycle
type PaymentIntentStatus string

const (
	PaymentIntentRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentRequiresConfirmation  PaymentIntentStatus = "requires_confirmation"
	PaymentIntentRequiresAction        PaymentIntentStatus = "requires_action"
	PaymentIntentProcessing            PaymentIntentStatus = "processing"
	PaymentIntentCanceled              PaymentIntentStatus = "canceled"
	PaymentIntentSucceeded             PaymentIntentStatus = "succeeded"
)

// Metadata keys written on every payment intent
const (
	MetadataUserID          = "user_id"
	MetadataSubtotal        = "subtotal"
	MetadataTotal           = "total"
	MetadataShippingAddress = "shipping_address"
)

// PaymentIntent is the provider-side record of a charge
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // smallest currency unit
	Currency     string
	Status       PaymentIntentStatus
	Metadata     map[string]string
}

// Succeeded reports whether the funds were captured
func (p *PaymentIntent) Succeeded() bool {
	return p.Status == PaymentIntentSucceeded
}

// CreatePaymentIntentRequest describes a new charge
type CreatePaymentIntentRequest struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// PaymentEventType is the kind of verified provider notification
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment_intent.succeeded"
	PaymentEventFailed    PaymentEventType = "payment_intent.payment_failed"
)

// PaymentEvent is a verified webhook notification
type PaymentEvent struct {
	ID     string
	Type   PaymentEventType
	Intent *PaymentIntent // nil for events that do not carry an intent
}

// PaymentGateway creates and inspects payment intents
type PaymentGateway interface {
	// CreatePaymentIntent starts a charge the client confirms with the returned secret
	CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntent, error)

	// GetPaymentIntent retrieves the current state of an intent
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)

	// ParseWebhook verifies the signature and decodes the event.
	// Returns ErrGatewayInvalidCallback when the signature does not match.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
