package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OrderListQuery holds the admin order listing parameters
type OrderListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending paid processing shipped delivered cancelled"`
	dto.PageQuery
}

// OrderHandler serves order history and the admin order screens
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListMine godoc
// @Summary      The caller's orders
// @Description  Newest first, with line items
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Security     SessionCookie
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if orders == nil {
		orders = []tradeapp.OrderResponse{}
	}
	h.Success(c, orders)
}

// GetMine godoc
// @Summary      One of the caller's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetMine(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AdminList godoc
// @Summary      All orders
// @Tags         admin
// @Produce      json
// @Param        status    query string false "Status filter"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	var q OrderListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.orderService.ListAll(c.Request.Context(), tradeapp.OrderListQuery{
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// AdminGet godoc
// @Summary      Any order
// @Tags         admin
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Move an order through fulfilment
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID"
// @Param        request body tradeapp.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      422 {object} ErrorResponse "Transition not allowed"
// @Security     SessionCookie
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
