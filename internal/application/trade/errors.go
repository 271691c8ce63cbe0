package trade

import "github.com/storefront/backend/internal/domain/shared"

// Checkout errors surfaced to the client with 402
var (
	ErrPaymentNotConfirmed = shared.NewDomainError("PAYMENT_NOT_CONFIRMED", "Payment has not been confirmed")
	ErrPaymentMismatch     = shared.NewDomainError("PAYMENT_MISMATCH", "Payment amount does not match the cart total")
)
