package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ProductListQuery holds the catalog listing query parameters
type ProductListQuery struct {
	Category string `form:"category" binding:"max=100"`
	Search   string `form:"search" binding:"max=200"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name"`
	dto.PageQuery
}

func (q ProductListQuery) toQuery() catalogapp.ProductListQuery {
	return catalogapp.ProductListQuery{
		Category: q.Category,
		Search:   q.Search,
		Sort:     q.Sort,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// ProductHandler serves the public catalog and the admin product screens
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @Summary      List active products
// @Tags         products
// @Produce      json
// @Param        category  query string false "Category filter"
// @Param        search    query string false "Case-insensitive name or description match"
// @Param        sort      query string false "newest, price_asc, price_desc or name"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.productService.ListActive(c.Request.Context(), q.toQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Categories godoc
// @Summary      Distinct categories of active products
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Router       /products/categories [get]
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	h.Success(c, categories)
}

// Get godoc
// @Summary      Product detail
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AdminList godoc
// @Summary      List all products, inactive included
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      403 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/products [get]
func (h *ProductHandler) AdminList(c *gin.Context) {
	var q ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.productService.ListAll(c.Request.Context(), q.toQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Create godoc
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Changed fields"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Deactivate a product
// @Tags         admin
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Product deleted"})
}

// CreateImageUpload godoc
// @Summary      Presigned image upload
// @Description  Returns a presigned PUT URL and sets the product image to the resulting public URL
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID"
// @Param        request body catalogapp.ImageUploadRequest true "Image content type"
// @Success      200 {object} APIResponse[catalogapp.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/products/{id}/image-upload [post]
func (h *ProductHandler) CreateImageUpload(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalogapp.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.productService.CreateImageUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}
