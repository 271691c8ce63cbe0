package trade

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultCountry is used when the address omits a country
const DefaultCountry = "US"

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Address string `json:"address" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	ZipCode string `json:"zipCode" binding:"required,max=20"`
	Country string `json:"country" binding:"omitempty,max=100"`
}

// Validate checks required fields. Request binding already enforces them;
// addresses decoded from payment metadata only pass through here.
func (a ShippingAddress) Validate() error {
	required := map[string]string{
		"name":    a.Name,
		"email":   a.Email,
		"address": a.Address,
		"city":    a.City,
		"state":   a.State,
		"zipCode": a.ZipCode,
	}
	for _, field := range []string{"name", "email", "address", "city", "state", "zipCode"} {
		if strings.TrimSpace(required[field]) == "" {
			return shared.NewDomainError("INVALID_SHIPPING_ADDRESS", "Shipping address "+field+" is required")
		}
	}
	return nil
}

// Normalize trims fields and fills the default country
func (a ShippingAddress) Normalize() ShippingAddress {
	out := ShippingAddress{
		Name:    strings.TrimSpace(a.Name),
		Email:   strings.TrimSpace(a.Email),
		Address: strings.TrimSpace(a.Address),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}
	return out
}
