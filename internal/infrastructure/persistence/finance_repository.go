package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRepository implements finance.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission row by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CommissionLedgerRow, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate loads a row holding a row lock
func (r *GormCommissionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.CommissionLedgerRow, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// FindByOrderID returns the row for an order, or nil when the order has none
func (r *GormCommissionRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*finance.CommissionLedgerRow, error) {
	row, err := r.first(r.db.WithContext(ctx), "order_id = ?", orderID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return row, err
}

func (r *GormCommissionRepository) first(db *gorm.DB, query string, arg uuid.UUID) (*finance.CommissionLedgerRow, error) {
	var row finance.CommissionLedgerRow
	if err := db.First(&row, query, arg).Error; err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return &row, nil
}

// Create inserts a commission row
func (r *GormCommissionRepository) Create(ctx context.Context, row *finance.CommissionLedgerRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Save updates a commission row
func (r *GormCommissionRepository) Save(ctx context.Context, row *finance.CommissionLedgerRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes a commission row
func (r *GormCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&finance.CommissionLedgerRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPaymentRepository records cash book rows
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Record inserts a payment
func (r *GormPaymentRepository) Record(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByCategory lists payments of a category, oldest first
func (r *GormPaymentRepository) FindByCategory(ctx context.Context, category string) ([]finance.Payment, error) {
	var payments []finance.Payment
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("paid_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

var (
	_ finance.CommissionRepository = (*GormCommissionRepository)(nil)
	_ finance.PaymentRepository    = (*GormPaymentRepository)(nil)
)
