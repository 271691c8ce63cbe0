package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Stripe webhook payloads are small; anything larger is rejected unread.
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler receives payment notifications from Stripe.
// The endpoint is public; authenticity comes from the Stripe-Signature header.
type StripeWebhookHandler struct {
	BaseHandler
	checkoutService CheckoutService
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(checkoutService CheckoutService) *StripeWebhookHandler {
	return &StripeWebhookHandler{checkoutService: checkoutService}
}

// StripeWebhookResponse is the acknowledgement Stripe expects
type StripeWebhookResponse struct {
	Received bool   `json:"received" example:"true"`
	Message  string `json:"message,omitempty"`
}

// HandleStripeWebhook godoc
// @Summary      Stripe webhook
// @Description  A succeeded payment intent commits the order it paid for. Retries are idempotent.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe webhook signature"
// @Success      200 {object} StripeWebhookResponse
// @Failure      400 {object} StripeWebhookResponse "Invalid signature"
// @Failure      413 {object} StripeWebhookResponse "Payload too large"
// @Failure      500 {object} StripeWebhookResponse "Processing failed, Stripe retries"
// @Router       /webhooks/stripe [post]
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// the signature covers the raw bytes, so the body is never re-encoded
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	err = h.checkoutService.HandleWebhook(c.Request.Context(), payload, signature)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, StripeWebhookResponse{Received: true})
	case errors.Is(err, trade.ErrGatewayInvalidCallback):
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Message: "Invalid signature"})
	case errors.Is(err, trade.ErrGatewayNotConfigured):
		c.JSON(http.StatusServiceUnavailable, StripeWebhookResponse{Message: "Webhooks are not configured"})
	default:
		logger.GetGinLogger(c).Error("Stripe webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{Message: "Processing failed"})
	}
}
