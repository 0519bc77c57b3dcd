package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// MeterProvider wraps the SDK MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   Config
}

// NewMeterProvider creates the global MeterProvider exporting over OTLP gRPC
// every exportInterval. When cfg.Enabled is false the global no-op provider stays.
func NewMeterProvider(ctx context.Context, cfg Config, exportInterval time.Duration, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger, config: cfg}

	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}
	if exportInterval <= 0 {
		exportInterval = 60 * time.Second
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

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", exportInterval),
	)
	return mp, nil
}

// Meter returns a named meter from the provider, or from the global one when disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Shutdown flushes pending metrics and stops the exporter
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

// CheckoutMetrics counts committed checkouts and their value.
type CheckoutMetrics struct {
	ordersPlaced metric.Int64Counter
	orderValue   metric.Float64Histogram
	orderItems   metric.Int64Histogram
}

// NewCheckoutMetrics registers the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	ordersPlaced, err := meter.Int64Counter("storefront_orders_placed_total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{orders}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter storefront_orders_placed_total: %w", err)
	}

	orderValue, err := meter.Float64Histogram("storefront_order_value",
		metric.WithDescription("Total value of placed orders"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 5000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram storefront_order_value: %w", err)
	}

	orderItems, err := meter.Int64Histogram("storefront_order_items",
		metric.WithDescription("Number of lines per placed order"),
		metric.WithUnit("{items}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram storefront_order_items: %w", err)
	}

	return &CheckoutMetrics{
		ordersPlaced: ordersPlaced,
		orderValue:   orderValue,
		orderItems:   orderItems,
	}, nil
}

// RecordOrderPlaced records one committed checkout
func (m *CheckoutMetrics) RecordOrderPlaced(ctx context.Context, itemCount int, total decimal.Decimal) {
	m.ordersPlaced.Add(ctx, 1)
	m.orderValue.Record(ctx, total.InexactFloat64())
	m.orderItems.Record(ctx, int64(itemCount))
}
