package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/sourcing"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRequestRepository implements ProductRequestRepository using GORM
type GormProductRequestRepository struct {
	db *gorm.DB
}

// NewGormProductRequestRepository creates a new GormProductRequestRepository
func NewGormProductRequestRepository(db *gorm.DB) *GormProductRequestRepository {
	return &GormProductRequestRepository{db: db}
}

// Create inserts a new request
func (r *GormProductRequestRepository) Create(ctx context.Context, request *sourcing.ProductRequest) error {
	return r.db.WithContext(ctx).Create(models.ProductRequestModelFromDomain(request)).Error
}

// FindByID finds a request by ID
func (r *GormProductRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*sourcing.ProductRequest, error) {
	var model models.ProductRequestModel
	if err := takeOne(r.db.WithContext(ctx).Where("id = ?", id), &model, "Product request"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's requests, newest first
func (r *GormProductRequestRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]sourcing.ProductRequest, error) {
	var rows []models.ProductRequestModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productRequestsToDomain(rows), nil
}

// FindAll lists requests for the back office
func (r *GormProductRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sourcing.ProductRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductRequestModel{})
	if status, ok := filter.Filters[sourcing.FilterStatus].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductRequestModel
	if err := paginate(query, filter, productRequestSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productRequestsToDomain(rows), total, nil
}

// SaveResponse writes the admin answer if the row is still pending
func (r *GormProductRequestRepository) SaveResponse(ctx context.Context, request *sourcing.ProductRequest) error {
	model := models.ProductRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).Model(&models.ProductRequestModel{}).
		Where("id = ? AND status = ?", request.ID, sourcing.RequestStatusPending).
		Updates(map[string]any{
			"status":       model.Status,
			"response":     model.Response,
			"quoted_price": model.QuotedPrice,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidState.WithMessage("Product request was already answered")
	}
	return nil
}

// CountByStatus counts requests in a status
func (r *GormProductRequestRepository) CountByStatus(ctx context.Context, status sourcing.RequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductRequestModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func productRequestsToDomain(rows []models.ProductRequestModel) []sourcing.ProductRequest {
	requests := make([]sourcing.ProductRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests
}

// Ensure GormProductRequestRepository implements ProductRequestRepository
var _ sourcing.ProductRequestRepository = (*GormProductRequestRepository)(nil)
