package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() ProductDetails {
	return ProductDetails{
		Name:        "Widget",
		Description: "A useful widget",
		Price:       decimal.RequireFromString("10.00"),
		ImageURL:    "https://cdn.example.com/widget.png",
		Category:    "gadgets",
		Stock:       25,
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(validDetails())

		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.True(t, p.IsActive)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("10")))
		assert.NotEqual(t, "", p.ID.String())
	})

	t.Run("rounds price to cents", func(t *testing.T) {
		d := validDetails()
		d.Price = decimal.RequireFromString("9.999")

		p, err := NewProduct(d)
		require.NoError(t, err)
		assert.Equal(t, "10.00", p.Price.StringFixed(2))
	})

	tests := []struct {
		name    string
		mutate  func(*ProductDetails)
		message string
	}{
		{"empty name", func(d *ProductDetails) { d.Name = "  " }, "cannot be empty"},
		{"negative price", func(d *ProductDetails) { d.Price = decimal.NewFromInt(-1) }, "cannot be negative"},
		{"negative stock", func(d *ProductDetails) { d.Stock = -3 }, "Stock cannot be negative"},
		{"empty category", func(d *ProductDetails) { d.Category = "" }, "Category cannot be empty"},
	}
	for _, tt := range tests {
		t.Run("fails with "+tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			_, err := NewProduct(d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct(validDetails())
	require.NoError(t, err)
	before := p.UpdatedAt

	d := validDetails()
	d.Name = "Widget Pro"
	d.Price = decimal.RequireFromString("12.50")
	require.NoError(t, p.Update(d))

	assert.Equal(t, "Widget Pro", p.Name)
	assert.Equal(t, "12.50", p.Price.StringFixed(2))
	assert.False(t, p.UpdatedAt.Before(before))

	d.Name = ""
	assert.Error(t, p.Update(d))
	assert.Equal(t, "Widget Pro", p.Name)
}

func TestProduct_Deactivate(t *testing.T) {
	p, err := NewProduct(validDetails())
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.IsActive)
}

func TestProduct_IsLowStock(t *testing.T) {
	p, err := NewProduct(validDetails())
	require.NoError(t, err)

	assert.False(t, p.IsLowStock())
	p.Stock = LowStockThreshold - 1
	assert.True(t, p.IsLowStock())
}
