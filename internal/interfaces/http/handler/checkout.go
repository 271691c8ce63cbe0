package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/storefront/backend/internal/application/trade"
)

// CheckoutHandler serves the payment intent and order commit endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Summary godoc
// @Summary      Checkout totals
// @Description  Subtotal, tax, shipping and total of the current cart
// @Tags         checkout
// @Produce      json
// @Success      200 {object} APIResponse[tradeapp.CheckoutSummary]
// @Failure      400 {object} ErrorResponse "Empty cart"
// @Security     SessionCookie
// @Router       /checkout/summary [get]
func (h *CheckoutHandler) Summary(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.checkoutService.Summary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CreatePaymentIntent godoc
// @Summary      Start a payment
// @Description  Creates a payment intent for the server-computed cart total
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePaymentIntentRequest false "Optional shipping address"
// @Success      200 {object} APIResponse[tradeapp.PaymentIntentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse "Payment provider error"
// @Security     SessionCookie
// @Router       /create-payment-intent [post]
func (h *CheckoutHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePaymentIntentRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	intent, err := h.checkoutService.CreatePaymentIntent(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, intent)
}

// CreateOrder godoc
// @Summary      Commit the order
// @Description  Converts the cart into a paid order once the payment intent succeeded. Repeating the call returns the same order with 200.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Payment intent and shipping address"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      402 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /create-order [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, created, err := h.checkoutService.CommitOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if created {
		h.Created(c, order)
		return
	}
	h.Success(c, order)
}
