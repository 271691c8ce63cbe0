package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	reportapp "github.com/storefront/backend/internal/application/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	err  error
	open int
}

func (p stubProbe) Ping(context.Context) error { return p.err }
func (p stubProbe) OpenConnections() int        { return p.open }

func TestHealthHandler(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewHealthHandler(stubProbe{open: 3}).Health)

		w := performRequest(router, http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got HealthResponse
		decodeData(t, w, &got)
		assert.Equal(t, "ok", got.Status)
		assert.Equal(t, "ok", got.Database)
		assert.Equal(t, 3, got.OpenConnections)
	})

	t.Run("database down", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewHealthHandler(stubProbe{err: errors.New("dial tcp: connection refused")}).Health)

		w := performRequest(router, http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestStatsHandler_Dashboard(t *testing.T) {
	svc := new(MockStatsService)
	svc.On("Dashboard", mock.Anything).Return(&reportapp.DashboardStats{
		TotalRevenue:      decimal.RequireFromString("1234.57"),
		TotalOrders:       42,
		PendingRequests:   5,
		LowStockProducts:  3,
		LowStockThreshold: 10,
	}, nil)
	router := gin.New()
	router.GET("/admin/stats", NewStatsHandler(svc).Dashboard)

	w := performRequest(router, http.MethodGet, "/admin/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got reportapp.DashboardStats
	decodeData(t, w, &got)
	assert.Equal(t, "1234.57", got.TotalRevenue.String())
	assert.Equal(t, int64(42), got.TotalOrders)
}
