package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	UserID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	Subtotal        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Shipping        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status          trade.OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaymentIntentID string                `gorm:"type:varchar(255);not null;uniqueIndex"`
	ShippingAddress trade.ShippingAddress `gorm:"type:text;serializer:json"`
	Items           []OrderItemModel      `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &trade.Order{
		BaseEntity:      m.entity(),
		UserID:          m.UserID,
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		Shipping:        m.Shipping,
		Total:           m.Total,
		Status:          m.Status,
		PaymentIntentID: m.PaymentIntentID,
		ShippingAddress: m.ShippingAddress,
		Items:           items,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.BaseModel = baseModel(o.BaseEntity)
	m.UserID = o.UserID
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.Shipping = o.Shipping
	m.Total = o.Total
	m.Status = o.Status
	m.PaymentIntentID = o.PaymentIntentID
	m.ShippingAddress = o.ShippingAddress
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *trade.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.Quantity = i.Quantity
	m.Price = i.Price
	m.CreatedAt = i.CreatedAt
}
