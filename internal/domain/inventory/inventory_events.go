package inventory

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeInventoryItem = "InventoryItem"

const (
	EventTypeStockDeducted       = "StockDeducted"
	EventTypeStockRestocked      = "StockRestocked"
	EventTypeStockReceived       = "StockReceived"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockMovedEvent records one change to an item's on-hand quantity. Delta
// is negative for consumption. OrderID is nil for supplier receipts.
type StockMovedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	Delta           decimal.Decimal `json:"delta"`
	Balance         decimal.Decimal `json:"balance"`
}

func newStockMoved(eventType string, item *InventoryItem, delta decimal.Decimal, orderID *uuid.UUID) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		OrderID:         orderID,
		Delta:           delta,
		Balance:         item.Available(),
	}
}

// NewStockDeductedEvent is raised after item has given quantity to an order
func NewStockDeductedEvent(item *InventoryItem, quantity decimal.Decimal, orderID uuid.UUID) *StockMovedEvent {
	return newStockMoved(EventTypeStockDeducted, item, quantity.Neg(), &orderID)
}

// NewStockRestockedEvent is raised when a cancelled order hands quantity back
func NewStockRestockedEvent(item *InventoryItem, quantity decimal.Decimal, orderID uuid.UUID) *StockMovedEvent {
	return newStockMoved(EventTypeStockRestocked, item, quantity, &orderID)
}

// NewStockReceivedEvent is raised on a supplier delivery
func NewStockReceivedEvent(item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return newStockMoved(EventTypeStockReceived, item, quantity, nil)
}

// StockBelowThresholdEvent carries the item snapshot a reorder alert needs
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
}

func NewStockBelowThresholdEvent(item *InventoryItem) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		Name:            item.Name,
		Unit:            item.Unit,
		CurrentQuantity: item.Available(),
		MinimumQuantity: item.MinThreshold,
	}
}
