package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes owned by the inventory context
var (
	ErrInventoryItemMissing = shared.NewDomainError("INVENTORY_ITEM_MISSING", "Inventory item referenced by a recipe no longer exists")
)

func init() {
	shared.RegisterErrorCategory(shared.CategoryIntegrity, ErrInventoryItemMissing.Code)
}

// InventoryItem is a consumable tracked by the lab (tubes, reagents, slides).
// It is the aggregate root for stock mutations. CurrentStock is null until the
// item is first counted or received, and is never persisted negative.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name         string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	CurrentStock decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Unit         string              `gorm:"type:varchar(50)"`
	MinThreshold decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Minimum stock threshold for alerts
	AverageCost  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average cost
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an item with no recorded stock
func NewInventoryItem(name, unit string) (*InventoryItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Inventory item name cannot be empty")
	}
	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
	}, nil
}

// Available returns the current stock, treating null as zero
func (i *InventoryItem) Available() decimal.Decimal {
	if !i.CurrentStock.Valid {
		return decimal.Zero
	}
	return i.CurrentStock.Decimal
}

// CanFulfill reports whether the item holds at least quantity. Null stock never fulfils.
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.CurrentStock.Valid && !i.CurrentStock.Decimal.LessThan(quantity)
}

// Receive adds purchased stock and recalculates the moving weighted average cost
func (i *InventoryItem) Receive(quantity, unitCost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	old := i.Available()
	if old.IsZero() {
		i.AverageCost = unitCost
	} else {
		// New Cost = (Old Quantity * Old Cost + New Quantity * New Cost) / (Old Quantity + New Quantity)
		total := old.Mul(i.AverageCost).Add(quantity.Mul(unitCost))
		i.AverageCost = total.Div(old.Add(quantity)).Round(4)
	}
	i.CurrentStock = decimal.NewNullDecimal(old.Add(quantity))
	i.UpdatedAt = time.Now()
	i.Record(NewStockReceivedEvent(i, quantity))
	return nil
}

// Deduct consumes quantity for an order. It fails with INSUFFICIENT_STOCK,
// leaving the item untouched, when stock is null or below the quantity.
func (i *InventoryItem) Deduct(quantity decimal.Decimal, orderID, testID uuid.UUID) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if !i.CanFulfill(quantity) {
		available := "none"
		if i.CurrentStock.Valid {
			available = i.CurrentStock.Decimal.String()
		}
		return shared.ErrInsufficientStock.
			WithDetail("test_id", testID.String()).
			WithDetail("item_id", i.ID.String()).
			WithDetail("item", i.Name).
			WithDetail("required", quantity.String()).
			WithDetail("available", available)
	}

	wasBelow := i.IsBelowMinimum()
	i.CurrentStock = decimal.NewNullDecimal(i.CurrentStock.Decimal.Sub(quantity))
	i.UpdatedAt = time.Now()
	i.Record(NewStockDeductedEvent(i, quantity, orderID))

	// alarm on crossing only
	if !wasBelow && i.IsBelowMinimum() {
		i.Record(NewStockBelowThresholdEvent(i))
	}
	return nil
}

// Restock returns quantity consumed by a cancelled order
func (i *InventoryItem) Restock(quantity decimal.Decimal, orderID uuid.UUID) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	i.CurrentStock = decimal.NewNullDecimal(i.Available().Add(quantity))
	i.UpdatedAt = time.Now()
	i.Record(NewStockRestockedEvent(i, quantity, orderID))
	return nil
}

// IsBelowMinimum reports whether available stock is under a configured threshold
func (i *InventoryItem) IsBelowMinimum() bool {
	return i.MinThreshold.IsPositive() && i.Available().LessThan(i.MinThreshold)
}
