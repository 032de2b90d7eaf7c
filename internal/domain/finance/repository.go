package finance

import (
	"context"

	"github.com/google/uuid"
)

// CommissionRepository persists commission ledger rows
type CommissionRepository interface {
	// FindByID finds a commission row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CommissionLedgerRow, error)

	// FindByIDForUpdate loads a row holding a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CommissionLedgerRow, error)

	// FindByOrderID returns the row for an order, or nil when the order has none
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*CommissionLedgerRow, error)

	Create(ctx context.Context, row *CommissionLedgerRow) error
	Save(ctx context.Context, row *CommissionLedgerRow) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository persists payments and serves as the default PaymentRecorder
type PaymentRepository interface {
	PaymentRecorder
	FindByCategory(ctx context.Context, category string) ([]Payment, error)
}
