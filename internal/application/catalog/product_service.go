package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ProductService handles storefront browsing and back office product management
type ProductService struct {
	productRepo   catalog.ProductRepository
	images        ImageStorage
	uploadExpires time.Duration
	logger        *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	images ImageStorage,
	uploadExpires time.Duration,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		images:        images,
		uploadExpires: uploadExpires,
		logger:        logger,
	}
}

// ListActive returns a page of products visible to customers
func (s *ProductService) ListActive(ctx context.Context, q ProductListQuery) (shared.Paginated[ProductResponse], error) {
	filter := q.toFilter()
	products, total, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// ListAll returns a page of products including inactive ones
func (s *ProductService) ListAll(ctx context.Context, q ProductListQuery) (shared.Paginated[ProductResponse], error) {
	filter := q.toFilter()
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// GetActive returns an active product; inactive products are not found
func (s *ProductService) GetActive(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Categories lists the categories of active products
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is required")
	}
	details := catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
	if req.Stock != nil {
		details.Stock = *req.Stock
	}

	product, err := catalog.NewProduct(details)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies the fields present in req
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := catalog.ProductDetails{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		Category:    product.Category,
		Stock:       product.Stock,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Price != nil {
		details.Price = *req.Price
	}
	if req.ImageURL != nil {
		details.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		details.Category = *req.Category
	}
	if req.Stock != nil {
		details.Stock = *req.Stock
	}

	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete soft-deletes a product so it disappears from the storefront
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deactivated", zap.String("product_id", id.String()))
	return nil
}

// CreateImageUpload presigns an image upload and points the product at the new image
func (s *ProductService) CreateImageUpload(ctx context.Context, id uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Image must be JPEG, PNG, WebP or GIF")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s.%s", product.ID, uuid.New(), ext)
	uploadURL, expiresAt, err := s.images.GenerateUploadURL(ctx, key, contentType, s.uploadExpires)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.String("product_id", id.String()), zap.Error(err))
		return nil, err
	}

	imageURL := s.images.PublicURL(key)
	product.SetImageURL(imageURL)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL: uploadURL,
		ImageURL:  imageURL,
		ExpiresAt: expiresAt,
	}, nil
}

func (q ProductListQuery) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	switch {
	case q.PageSize > maxPageSize:
		filter.PageSize = maxPageSize
	case q.PageSize > 0:
		filter.PageSize = q.PageSize
	default:
		filter.PageSize = defaultPageSize
	}

	switch q.Sort {
	case SortPriceAsc:
		filter.OrderBy, filter.OrderDir = "price", "asc"
	case SortPriceDesc:
		filter.OrderBy, filter.OrderDir = "price", "desc"
	case SortName:
		filter.OrderBy, filter.OrderDir = "name", "asc"
	default:
		filter.OrderBy, filter.OrderDir = "created_at", "desc"
	}

	filter.Search = strings.TrimSpace(q.Search)
	if category := strings.TrimSpace(q.Category); category != "" {
		filter = filter.WithFilter(catalog.FilterCategory, category)
	}
	return filter
}
