package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrOperation  = attribute.Key("operation")
	attrAlertLevel = attribute.Key("alert_level")
)

// AmountBuckets covers order totals in the local currency
var AmountBuckets = []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000}

// LabMetrics holds business counters for the order lifecycle.
// A nil *LabMetrics records nothing.
type LabMetrics struct {
	ordersCreated      metric.Int64Counter
	ordersCompleted    metric.Int64Counter
	ordersCancelled    metric.Int64Counter
	conflictRetries    metric.Int64Counter
	stockAlerts        metric.Int64Counter
	commissionsSettled metric.Int64Counter
	orderTotal         metric.Float64Histogram
	refundTotal        metric.Float64Histogram
}

func NewLabMetrics(meter metric.Meter) (*LabMetrics, error) {
	in := NewInstruments(meter)
	m := &LabMetrics{
		ordersCreated:      in.Counter("lab_orders_created_total", "Lab orders created", "{order}"),
		ordersCompleted:    in.Counter("lab_orders_completed_total", "Lab orders with every result filled", "{order}"),
		ordersCancelled:    in.Counter("lab_orders_cancelled_total", "Lab orders cancelled", "{order}"),
		conflictRetries:    in.Counter("lab_conflict_retries_total", "Operations retried after a version conflict", "{retry}"),
		stockAlerts:        in.Counter("lab_stock_alerts_total", "Inventory items that fell below their threshold", "{alert}"),
		commissionsSettled: in.Counter("lab_commissions_settled_total", "Commission rows paid out", "{commission}"),
		orderTotal:         in.Histogram("lab_order_total_amount", "Gross order amount", "1", AmountBuckets...),
		refundTotal:        in.Histogram("lab_refund_amount", "Refund posted on cancellation", "1", AmountBuckets...),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOrderCreated counts a created order and observes its gross total
func (m *LabMetrics) RecordOrderCreated(ctx context.Context, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1)
	m.orderTotal.Record(ctx, total.InexactFloat64())
}

func (m *LabMetrics) RecordOrderCompleted(ctx context.Context) {
	if m != nil {
		m.ordersCompleted.Add(ctx, 1)
	}
}

// RecordOrderCancelled counts a cancellation; zero refunds are not observed
func (m *LabMetrics) RecordOrderCancelled(ctx context.Context, refund decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersCancelled.Add(ctx, 1)
	if refund.IsPositive() {
		m.refundTotal.Record(ctx, refund.InexactFloat64())
	}
}

func (m *LabMetrics) RecordConflictRetry(ctx context.Context, operation string) {
	if m != nil {
		m.conflictRetries.Add(ctx, 1, metric.WithAttributes(attrOperation.String(operation)))
	}
}

// RecordStockAlert counts an alert by level (low_stock, out_of_stock)
func (m *LabMetrics) RecordStockAlert(ctx context.Context, level string) {
	if m != nil {
		m.stockAlerts.Add(ctx, 1, metric.WithAttributes(attrAlertLevel.String(level)))
	}
}

func (m *LabMetrics) RecordCommissionSettled(ctx context.Context) {
	if m != nil {
		m.commissionsSettled.Add(ctx, 1)
	}
}
