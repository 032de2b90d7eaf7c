package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItemRepository persists consumables.
//
// Stock is only ever changed through FindByIDsForUpdate followed by
// UpdateStock inside one transaction: the row lock serializes stations
// on the same item, the version check catches writers that skipped it.
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByIDsForUpdate locks the rows in id order. Unknown ids are skipped.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]InventoryItem, error)

	// Save inserts or overwrites every column
	Save(ctx context.Context, item *InventoryItem) error

	// UpdateStock writes stock, cost and threshold for an item loaded at
	// item.Version and bumps the version, or returns CONCURRENCY_CONFLICT.
	UpdateStock(ctx context.Context, item *InventoryItem) error
}
