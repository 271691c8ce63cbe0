package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := takeOne(r.withItems(r.db.WithContext(ctx)).Where("id = ?", id), &model, "Order"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows), nil
}

// FindAll lists orders for the back office
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if status, ok := filter.Filters[trade.FilterStatus].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := paginate(r.withItems(query), filter, orderSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return ordersToDomain(rows), total, nil
}

// FindByPaymentIntentID finds the order committed for a payment intent
func (r *GormOrderRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*trade.Order, error) {
	return r.findByPaymentIntentID(r.db.WithContext(ctx), paymentIntentID)
}

// UpdateStatus sets the status only if the order is still in from
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to trade.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidState
	}
	return nil
}

// Revenue sums the totals of paid orders that were not cancelled
func (r *GormOrderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("COALESCE(SUM(total), 0) as total").
		Where("status NOT IN ?", []trade.OrderStatus{trade.OrderStatusCancelled, trade.OrderStatusPending}).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total.Round(2), nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CommitCheckout turns the user's cart into an order in one transaction.
// Cart rows are locked on PostgreSQL so a concurrent commit waits, then
// finds the order already written for the intent.
func (r *GormOrderRepository) CommitCheckout(
	ctx context.Context,
	userID uuid.UUID,
	paymentIntentID string,
	build trade.OrderBuilder,
) (*trade.Order, bool, error) {
	var (
		order   *trade.Order
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock first: the order lookup below then sees a commit we waited on.
		cartQuery := tx.Preload("Product").
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Order("id ASC")
		if tx.Dialector.Name() == "postgres" {
			cartQuery = cartQuery.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
		}

		var rows []models.CartItemModel
		if err := cartQuery.Find(&rows).Error; err != nil {
			return err
		}

		existing, err := r.findByPaymentIntentID(tx, paymentIntentID)
		if err == nil {
			order = existing
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		lines := make([]trade.CheckoutLine, len(rows))
		ids := make([]uuid.UUID, len(rows))
		for i := range rows {
			lines[i] = rows[i].ToCheckoutLine()
			ids[i] = rows[i].ID
		}

		built, err := build(lines)
		if err != nil {
			return err
		}

		if err := tx.Create(models.OrderModelFromDomain(built)).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Delete(&models.CartItemModel{}).Error; err != nil {
				return err
			}
		}

		order = built
		created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another commit for the same intent won the race
		existing, findErr := r.findByPaymentIntentID(r.db.WithContext(ctx), paymentIntentID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

func (r *GormOrderRepository) findByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*trade.Order, error) {
	var model models.OrderModel
	query := r.withItems(db).Where("payment_intent_id = ?", paymentIntentID)
	if err := takeOne(query, &model, "Order"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormOrderRepository) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("id ASC")
	})
}

func ordersToDomain(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
