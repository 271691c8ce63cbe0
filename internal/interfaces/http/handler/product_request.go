package handler

import (
	"github.com/gin-gonic/gin"
	sourcingapp "github.com/storefront/backend/internal/application/sourcing"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ProductRequestListQuery holds the admin listing parameters
type ProductRequestListQuery struct {
	Status string `form:"status" binding:"max=20"`
	dto.PageQuery
}

// ProductRequestHandler serves sourcing requests for products the store does not carry
type ProductRequestHandler struct {
	BaseHandler
	requestService ProductRequestService
}

// NewProductRequestHandler creates a new ProductRequestHandler
func NewProductRequestHandler(requestService ProductRequestService) *ProductRequestHandler {
	return &ProductRequestHandler{requestService: requestService}
}

// Submit godoc
// @Summary      Ask the store to source a product
// @Tags         product-requests
// @Accept       json
// @Produce      json
// @Param        request body sourcingapp.SubmitRequest true "Request"
// @Success      201 {object} APIResponse[sourcingapp.ProductRequestResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /product-requests [post]
func (h *ProductRequestHandler) Submit(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req sourcingapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.requestService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine godoc
// @Summary      The caller's product requests
// @Tags         product-requests
// @Produce      json
// @Success      200 {object} APIResponse[[]sourcingapp.ProductRequestResponse]
// @Security     SessionCookie
// @Router       /product-requests [get]
func (h *ProductRequestHandler) ListMine(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	requests, err := h.requestService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if requests == nil {
		requests = []sourcingapp.ProductRequestResponse{}
	}
	h.Success(c, requests)
}

// AdminList godoc
// @Summary      All product requests
// @Tags         admin
// @Produce      json
// @Param        status    query string false "pending, quoted, accepted or rejected"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]sourcingapp.ProductRequestResponse]
// @Security     SessionCookie
// @Router       /admin/product-requests [get]
func (h *ProductRequestHandler) AdminList(c *gin.Context) {
	var q ProductRequestListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.requestService.ListAll(c.Request.Context(), sourcingapp.ListQuery{
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

// Respond godoc
// @Summary      Quote or reject a product request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product request ID"
// @Param        request body sourcingapp.RespondRequest true "Answer"
// @Success      200 {object} APIResponse[sourcingapp.ProductRequestResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "Already answered"
// @Security     SessionCookie
// @Router       /admin/product-requests/{id} [put]
func (h *ProductRequestHandler) Respond(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req sourcingapp.RespondRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.requestService.Respond(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
