package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler serves the caller's shopping cart
type CartHandler struct {
	BaseHandler
	cartService CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Security     SessionCookie
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Add godoc
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart increases its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddToCartRequest true "Product and quantity"
// @Success      200 {object} APIResponse[cartapp.CartItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /cart [post]
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req cartapp.AddToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.cartService.AddToCart(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @Summary      Set the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id      path string true "Cart item ID"
// @Param        request body cartapp.UpdateCartItemRequest true "Quantity"
// @Success      200 {object} APIResponse[cartapp.CartItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /cart/{id} [put]
func (h *CartHandler) Update(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req cartapp.UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.cartService.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Remove godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        id path string true "Cart item ID"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /cart/{id} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Item removed"})
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Security     SessionCookie
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Cart cleared"})
}
