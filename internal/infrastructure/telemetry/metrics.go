package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates and registers the global meter provider.
// When metrics are disabled the global no-op provider stays in place.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}

	if !cfg.Enabled || !cfg.MetricsEnabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	interval := cfg.MetricsExportInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(serviceResource(cfg.ServiceName)),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter, falling back to the global provider
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled returns whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown exports the last collection and stops the reader
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Webhook outcomes
const (
	WebhookOutcomeCommitted = "committed"
	WebhookOutcomeSkipped   = "skipped"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeFailed    = "failed"
	WebhookOutcomeRejected  = "rejected"
)

// Order commit sources
const (
	CommitSourceCheckout = "checkout"
	CommitSourceWebhook  = "webhook"
)

// CheckoutMetrics counts the money path: intents, committed orders and gateway callbacks.
// A nil *CheckoutMetrics records nothing.
type CheckoutMetrics struct {
	intentsCreated  metric.Int64Counter
	ordersCommitted metric.Int64Counter
	revenue         metric.Float64Counter
	webhookEvents   metric.Int64Counter
}

// NewCheckoutMetrics registers the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &CheckoutMetrics{}
	var err error
	if m.intentsCreated, err = meter.Int64Counter(
		"storefront.checkout.payment_intents",
		metric.WithDescription("Payment intents created"),
		metric.WithUnit("{intent}"),
	); err != nil {
		return nil, fmt.Errorf("payment intent counter: %w", err)
	}
	if m.ordersCommitted, err = meter.Int64Counter(
		"storefront.orders.committed",
		metric.WithDescription("Orders created from paid carts"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, fmt.Errorf("order counter: %w", err)
	}
	if m.revenue, err = meter.Float64Counter(
		"storefront.orders.revenue",
		metric.WithDescription("Total amount of committed orders"),
	); err != nil {
		return nil, fmt.Errorf("revenue counter: %w", err)
	}
	if m.webhookEvents, err = meter.Int64Counter(
		"storefront.webhook.events",
		metric.WithDescription("Payment gateway callbacks by event type and outcome"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("webhook counter: %w", err)
	}
	return m, nil
}

// PaymentIntentCreated records one intent
func (m *CheckoutMetrics) PaymentIntentCreated(ctx context.Context, currency string) {
	if m == nil {
		return
	}
	m.intentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("currency", currency)))
}

// OrderCommitted records a new order and adds its total to revenue
func (m *CheckoutMetrics) OrderCommitted(ctx context.Context, source, currency string, total decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("currency", currency),
	)
	m.ordersCommitted.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, total.InexactFloat64(), attrs)
}

// WebhookEvent records how a gateway callback was handled
func (m *CheckoutMetrics) WebhookEvent(ctx context.Context, eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome),
	))
}
