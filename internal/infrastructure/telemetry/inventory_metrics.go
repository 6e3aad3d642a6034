package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metric names exported by the inventory service.
const (
	MetricInventoryTransactions = "ims.inventory.transactions"
	MetricLowStockAlerts        = "ims.inventory.low_stock_alerts"
	MetricDeliveryFailures      = "ims.notification.delivery_failures"
	MetricLowStockProducts      = "ims.inventory.low_stock_products"
)

// Transaction outcomes recorded on ims.inventory.transactions.
const (
	OutcomeCommitted         = "committed"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeRejected          = "rejected"
	OutcomeFailed            = "failed"
)

// ErrMeterNil is returned when NewInventoryMetrics gets no meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LowStockCounter reports how many products sit at or below their minimum level.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// InventoryMetrics records inventory and alerting counters. A nil
// *InventoryMetrics is valid and records nothing.
type InventoryMetrics struct {
	logger *zap.Logger

	transactions     metric.Int64Counter
	lowStockAlerts   metric.Int64Counter
	deliveryFailures metric.Int64Counter
	lowStockProducts metric.Int64Gauge

	provider    LowStockCounter
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// InventoryMetricsConfig holds configuration for inventory metrics.
type InventoryMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	Provider LowStockCounter
}

// NewInventoryMetrics creates the instruments on cfg.Meter.
func NewInventoryMetrics(cfg InventoryMetricsConfig) (*InventoryMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &InventoryMetrics{
		logger:   logger,
		provider: cfg.Provider,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.transactions, err = cfg.Meter.Int64Counter(MetricInventoryTransactions,
		metric.WithDescription("Stock transactions processed, by direction and outcome"),
		metric.WithUnit("{transactions}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricInventoryTransactions, err)
	}
	if m.lowStockAlerts, err = cfg.Meter.Int64Counter(MetricLowStockAlerts,
		metric.WithDescription("Low stock alerts raised after a stock-out"),
		metric.WithUnit("{alerts}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricLowStockAlerts, err)
	}
	if m.deliveryFailures, err = cfg.Meter.Int64Counter(MetricDeliveryFailures,
		metric.WithDescription("Alert deliveries that failed, by channel"),
		metric.WithUnit("{failures}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricDeliveryFailures, err)
	}
	if m.lowStockProducts, err = cfg.Meter.Int64Gauge(MetricLowStockProducts,
		metric.WithDescription("Products at or below their minimum stock level"),
		metric.WithUnit("{products}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricLowStockProducts, err)
	}
	return m, nil
}

// RecordTransaction counts one processed transaction.
func (m *InventoryMetrics) RecordTransaction(ctx context.Context, direction, outcome string) {
	if m == nil {
		return
	}
	m.transactions.Add(ctx, 1, metric.WithAttributes(AttrDirection.String(direction), AttrOutcome.String(outcome)))
}

// RecordLowStockAlert counts one alert evaluation that found a low product.
func (m *InventoryMetrics) RecordLowStockAlert(ctx context.Context) {
	if m == nil {
		return
	}
	m.lowStockAlerts.Add(ctx, 1)
}

// RecordDeliveryFailure counts a failed delivery on channel ("in_app" or "email").
func (m *InventoryMetrics) RecordDeliveryFailure(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	m.deliveryFailures.Add(ctx, 1, metric.WithAttributes(AttrChannel.String(channel)))
}

// RecordLowStockProducts sets the low stock gauge.
func (m *InventoryMetrics) RecordLowStockProducts(ctx context.Context, count int64) {
	if m == nil {
		return
	}
	m.lowStockProducts.Record(ctx, count)
}

// StartPeriodicCollection samples the low stock gauge every interval until
// ctx is done or Stop is called. It does nothing without a provider.
func (m *InventoryMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if m == nil || m.provider == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go m.runPeriodicCollection(ctx, interval)
	})
}

func (m *InventoryMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collect(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect(ctx)
		}
	}
}

func (m *InventoryMetrics) collect(ctx context.Context) {
	count, err := m.provider.CountLowStock(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect low stock count", zap.Error(err))
		return
	}
	m.RecordLowStockProducts(ctx, count)
}

// Stop ends periodic collection.
func (m *InventoryMetrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stopChan) })
}
