package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/sourcing"
)

// ProductRequestModel is the persistence model for the ProductRequest domain entity.
type ProductRequestModel struct {
	BaseModel
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Description string                 `gorm:"type:text;not null"`
	Quantity    int                    `gorm:"not null"`
	BudgetRange string                 `gorm:"type:varchar(100)"`
	Email       string                 `gorm:"type:varchar(200);not null"`
	Status      sourcing.RequestStatus `gorm:"type:varchar(20);not null;index"`
	Response    string                 `gorm:"type:text"`
	QuotedPrice decimal.NullDecimal    `gorm:"type:decimal(12,2)"`
}

// TableName returns the table name for GORM
func (ProductRequestModel) TableName() string {
	return "product_requests"
}

// ToDomain converts the persistence model to a domain ProductRequest entity.
func (m *ProductRequestModel) ToDomain() *sourcing.ProductRequest {
	r := &sourcing.ProductRequest{
		BaseEntity:  m.entity(),
		UserID:      m.UserID,
		Description: m.Description,
		Quantity:    m.Quantity,
		BudgetRange: m.BudgetRange,
		Email:       m.Email,
		Status:      m.Status,
		Response:    m.Response,
	}
	if m.QuotedPrice.Valid {
		price := m.QuotedPrice.Decimal
		r.QuotedPrice = &price
	}
	return r
}

// FromDomain populates the persistence model from a domain ProductRequest entity.
func (m *ProductRequestModel) FromDomain(r *sourcing.ProductRequest) {
	m.BaseModel = baseModel(r.BaseEntity)
	m.UserID = r.UserID
	m.Description = r.Description
	m.Quantity = r.Quantity
	m.BudgetRange = r.BudgetRange
	m.Email = r.Email
	m.Status = r.Status
	m.Response = r.Response
	m.QuotedPrice = decimal.NullDecimal{}
	if r.QuotedPrice != nil {
		m.QuotedPrice = decimal.NewNullDecimal(*r.QuotedPrice)
	}
}

// ProductRequestModelFromDomain creates a new persistence model from a domain ProductRequest entity.
func ProductRequestModelFromDomain(r *sourcing.ProductRequest) *ProductRequestModel {
	m := &ProductRequestModel{}
	m.FromDomain(r)
	return m
}
