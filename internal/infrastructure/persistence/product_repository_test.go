package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Blue Widget", "widgets", "19.99", 50)
	seedProduct(t, db, "Red Widget", "widgets", "9.50", 5)
	seedProduct(t, db, "Gadget 100%", "gadgets", "99.00", 20)
	hidden := seedProduct(t, db, "Hidden Widget", "widgets", "1.00", 1)
	require.NoError(t, repo.SoftDelete(ctx, hidden.ID))

	t.Run("excludes inactive products", func(t *testing.T) {
		products, total, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 3)
	})

	t.Run("filters by category", func(t *testing.T) {
		filter := shared.DefaultFilter().WithFilter(catalog.FilterCategory, "widgets")
		products, total, err := repo.FindActive(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range products {
			assert.Equal(t, "widgets", p.Category)
		}
	})

	t.Run("searches case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "WIDGET"
		_, total, err := repo.FindActive(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search treats percent literally", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "100%"
		products, total, err := repo.FindActive(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Gadget 100%", products[0].Name)
	})

	t.Run("sorts by price ascending", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "price"
		filter.OrderDir = "asc"
		products, _, err := repo.FindActive(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Red Widget", products[0].Name)
		assert.Equal(t, "Gadget 100%", products[2].Name)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.Page = 2
		products, total, err := repo.FindActive(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 1)
	})

	t.Run("admin listing includes inactive products", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})
}

func TestGormProductRepository_FindActiveByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Lamp", "home", "25.00", 3)

	found, err := repo.FindActiveByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.00").Equal(found.Price))

	require.NoError(t, repo.SoftDelete(ctx, product.ID))

	_, err = repo.FindActiveByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	found, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	assert.ErrorIs(t, repo.SoftDelete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormProductRepository_CategoriesAndLowStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "A", "zeta", "1.00", 2)
	seedProduct(t, db, "B", "alpha", "1.00", 50)
	seedProduct(t, db, "C", "alpha", "1.00", 9)
	gone := seedProduct(t, db, "D", "hidden", "1.00", 0)
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, categories)

	lowStock, err := repo.CountLowStock(ctx, catalog.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(2), lowStock)
}

func TestGormProductRepository_SaveUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Chair", "home", "40.00", 4)
	require.NoError(t, product.Update(catalog.ProductDetails{
		Name:     "Armchair",
		Price:    decimal.RequireFromString("55.5"),
		Category: "home",
		Stock:    6,
	}))
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Armchair", found.Name)
	assert.Equal(t, 6, found.Stock)
	assert.True(t, decimal.RequireFromString("55.50").Equal(found.Price))
}
