package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements lab.OrderRepository using GORM.
// Create, Save and Delete touch several tables and expect to run inside a transaction.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func orderedResults(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID loads an order with its results
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*lab.Order, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads an order holding a row lock on it
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*lab.Order, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) find(db *gorm.DB, id uuid.UUID) (*lab.Order, error) {
	var order lab.Order
	if err := db.Preload("Results", orderedResults).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return &order, nil
}

// FindOrderIDByResultID resolves the owning order of a result row
func (r *GormOrderRepository) FindOrderIDByResultID(ctx context.Context, resultID uuid.UUID) (uuid.UUID, error) {
	var result lab.Result
	err := r.db.WithContext(ctx).Select("id", "order_id").First(&result, "id = ?", resultID).Error
	if err != nil {
		return uuid.Nil, notFoundAs(err, shared.ErrNotFound)
	}
	return result.OrderID, nil
}

// Create inserts the order row followed by its results
func (r *GormOrderRepository) Create(ctx context.Context, order *lab.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Results) == 0 {
		return nil
	}
	return db.Create(&order.Results).Error
}

// Save writes the order row at its loaded version and every result row.
// The version is bumped on success.
func (r *GormOrderRepository) Save(ctx context.Context, order *lab.Order) error {
	db := r.db.WithContext(ctx)
	expected := order.Version
	order.Version = expected + 1

	res := db.Model(order).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(order)
	if res.Error != nil {
		order.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		order.Version = expected
		return shared.ErrConcurrencyConflict.WithDetail("order_id", order.ID.String())
	}

	for i := range order.Results {
		if err := db.Save(&order.Results[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order and its results
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&lab.Result{}).Error; err != nil {
		return err
	}
	res := db.Delete(&lab.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ lab.OrderRepository = (*GormOrderRepository)(nil)
