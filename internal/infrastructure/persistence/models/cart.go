package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/trade"
)

// CartItemModel is the persistence model for the CartItem domain entity.
type CartItemModel struct {
	BaseModel
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:1"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:2"`
	Quantity  int          `gorm:"not null"`
	Product   ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem entity.
func (m *CartItemModel) ToDomain() *cart.CartItem {
	return &cart.CartItem{
		BaseEntity: m.entity(),
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// ToLine converts a model loaded with its product to a cart line.
func (m *CartItemModel) ToLine() cart.Line {
	return cart.Line{
		CartItem: *m.ToDomain(),
		Product:  *m.Product.ToDomain(),
	}
}

// ToCheckoutLine converts a model loaded with its product to the line an order is built from.
func (m *CartItemModel) ToCheckoutLine() trade.CheckoutLine {
	return trade.CheckoutLine{
		CartItemID:  m.ID,
		ProductID:   m.ProductID,
		ProductName: m.Product.Name,
		UnitPrice:   m.Product.Price,
		Quantity:    m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain CartItem entity.
func (m *CartItemModel) FromDomain(i *cart.CartItem) {
	m.BaseModel = baseModel(i.BaseEntity)
	m.UserID = i.UserID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
}

// CartItemModelFromDomain creates a new persistence model from a domain CartItem entity.
func CartItemModelFromDomain(i *cart.CartItem) *CartItemModel {
	m := &CartItemModel{}
	m.FromDomain(i)
	return m
}
