// Package report serves the back office dashboard figures.
package report

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/sourcing"
	"github.com/storefront/backend/internal/domain/trade"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int64           `json:"totalOrders"`
	PendingRequests   int64           `json:"pendingRequests"`
	LowStockProducts  int64           `json:"lowStockProducts"`
	LowStockThreshold int             `json:"lowStockThreshold"`
}

// StatsService aggregates figures from the order, product and request stores
type StatsService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	requestRepo sourcing.ProductRequestRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	requestRepo sourcing.ProductRequestRepository,
) *StatsService {
	return &StatsService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		requestRepo: requestRepo,
	}
}

// Dashboard runs the four counts concurrently and fails on the first error
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{LowStockThreshold: catalog.LowStockThreshold}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		revenue, err := s.orderRepo.Revenue(gctx)
		stats.TotalRevenue = revenue.Round(2)
		return err
	})
	g.Go(func() error {
		count, err := s.orderRepo.Count(gctx)
		stats.TotalOrders = count
		return err
	})
	g.Go(func() error {
		count, err := s.requestRepo.CountByStatus(gctx, sourcing.RequestStatusPending)
		stats.PendingRequests = count
		return err
	})
	g.Go(func() error {
		count, err := s.productRepo.CountLowStock(gctx, catalog.LowStockThreshold)
		stats.LowStockProducts = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
