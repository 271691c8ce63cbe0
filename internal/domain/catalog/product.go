package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// LowStockThreshold is the stock level under which a product is flagged on the dashboard
const LowStockThreshold = 10

// Product represents a catalog entry.
// Inactive products are soft-deleted and hidden from customers.
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Stock       int
	IsActive    bool
}

// ProductDetails carries the editable fields of a product
type ProductDetails struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Stock       int
}

// NewProduct creates a new active product
func NewProduct(d ProductDetails) (*Product, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Price:       d.Price.Round(2),
		ImageURL:    d.ImageURL,
		Category:    strings.TrimSpace(d.Category),
		Stock:       d.Stock,
		IsActive:    true,
	}, nil
}

// Update replaces the editable fields of the product
func (p *Product) Update(d ProductDetails) error {
	if err := d.validate(); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(d.Name)
	p.Description = d.Description
	p.Price = d.Price.Round(2)
	p.ImageURL = d.ImageURL
	p.Category = strings.TrimSpace(d.Category)
	p.Stock = d.Stock
	p.Touch()
	return nil
}

// SetImageURL sets the product image
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.Touch()
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// IsLowStock reports whether the stock is under the dashboard threshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

func (d ProductDetails) validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if d.Stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if strings.TrimSpace(d.Category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	return nil
}
