// Package inventory reacts to consumable stock events.
package inventory

import (
	"context"
	"fmt"

	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AlertLevel grades a stock alarm
type AlertLevel string

const (
	AlertLow      AlertLevel = "low_stock"
	AlertDepleted AlertLevel = "out_of_stock"
)

// StockAlert asks the front desk to reorder a consumable
type StockAlert struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Level           AlertLevel      `json:"level"`
	Current         decimal.Decimal `json:"current"`
	Minimum         decimal.Decimal `json:"minimum"`
	// Shortfall is what brings the item back to its minimum
	Shortfall decimal.Decimal `json:"shortfall"`
}

// StockAlertNotifier delivers alerts outside the process
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockBelowThresholdHandler turns StockBelowThreshold events into reorder
// alerts: a warning log line, a metric and an optional notification.
type StockBelowThresholdHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
	metrics  *telemetry.LabMetrics
}

func NewStockBelowThresholdHandler(logger *zap.Logger) *StockBelowThresholdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockBelowThresholdHandler{logger: logger.Named("stock")}
}

func (h *StockBelowThresholdHandler) WithNotifier(notifier StockAlertNotifier) *StockBelowThresholdHandler {
	h.notifier = notifier
	return h
}

func (h *StockBelowThresholdHandler) WithMetrics(metrics *telemetry.LabMetrics) *StockBelowThresholdHandler {
	h.metrics = metrics
	return h
}

func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

func (h *StockBelowThresholdHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("stock alert handler got %s event", event.EventType())
	}

	alert := alertFor(e)
	h.logger.Warn("Consumable below reorder threshold",
		zap.String("inventory_item_id", alert.InventoryItemID),
		zap.String("item", alert.Name),
		zap.String("level", string(alert.Level)),
		zap.String("current", alert.Current.String()),
		zap.String("minimum", alert.Minimum.String()),
		zap.String("shortfall", alert.Shortfall.String()),
	)
	h.metrics.RecordStockAlert(ctx, string(alert.Level))

	if h.notifier == nil {
		return nil
	}
	// delivery problems are logged, the stock change already committed
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("Stock alert notification failed",
			zap.String("inventory_item_id", alert.InventoryItemID),
			zap.Error(err),
		)
	}
	return nil
}

func alertFor(e *inventory.StockBelowThresholdEvent) StockAlert {
	level := AlertLow
	if !e.CurrentQuantity.IsPositive() {
		level = AlertDepleted
	}
	shortfall := e.MinimumQuantity.Sub(e.CurrentQuantity)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	return StockAlert{
		InventoryItemID: e.InventoryItemID.String(),
		Name:            e.Name,
		Unit:            e.Unit,
		Level:           level,
		Current:         e.CurrentQuantity,
		Minimum:         e.MinimumQuantity,
		Shortfall:       shortfall,
	}
}

var _ shared.EventHandler = (*StockBelowThresholdHandler)(nil)
