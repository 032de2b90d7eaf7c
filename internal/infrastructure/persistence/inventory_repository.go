package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryItemRepository stores consumables in inventory_items
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GORM inventory repository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID returns the item or shared.ErrNotFound
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item := new(inventory.InventoryItem)
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(item).Error; err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return item, nil
}

// FindByIDsForUpdate takes the locks in ascending id order, so two orders
// sharing items never wait on each other in opposite directions
func (r *GormInventoryItemRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []inventory.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// Save inserts or fully overwrites the item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// UpdateStock writes the stock columns if the stored version still matches
// item.Version, then bumps it. A stale version returns shared.ErrConcurrencyConflict.
func (r *GormInventoryItemRepository) UpdateStock(ctx context.Context, item *inventory.InventoryItem) error {
	res := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]any{
			"current_stock": item.CurrentStock,
			"average_cost":  item.AverageCost,
			"min_threshold": item.MinThreshold,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    item.UpdatedAt,
		})
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return shared.ErrConcurrencyConflict.WithDetail("inventory_item_id", item.ID.String())
	}
	item.Version++
	return nil
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
