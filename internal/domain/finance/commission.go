package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrCommissionAlreadyPaid blocks cancelling an order whose commission was paid out
var ErrCommissionAlreadyPaid = shared.NewDomainError("COMMISSION_ALREADY_PAID", "Commission for this order has already been paid")

func init() {
	shared.RegisterErrorCategory(shared.CategoryNotPermitted, ErrCommissionAlreadyPaid.Code)
}

// CommissionStatus represents the payout status of a commission row
type CommissionStatus string

const (
	CommissionStatusUnpaid CommissionStatus = "UNPAID"
	CommissionStatusPaid   CommissionStatus = "PAID"
)

// IsValid checks if the status is a valid CommissionStatus
func (s CommissionStatus) IsValid() bool {
	return s == CommissionStatusUnpaid || s == CommissionStatusPaid
}

// String returns the string representation of CommissionStatus
func (s CommissionStatus) String() string {
	return string(s)
}

// CommissionLedgerRow is the commission owed to a referring doctor for one order.
// The bill amount and rate are snapshots taken when the order was created.
type CommissionLedgerRow struct {
	shared.BaseEntity
	OrderID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	DoctorID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	TotalBillAmount  decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CommissionRate   decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	CalculatedAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Status           CommissionStatus `gorm:"type:varchar(10);not null;default:'UNPAID'"`
	TransactionDate  time.Time        `gorm:"not null"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (CommissionLedgerRow) TableName() string {
	return "commission_ledger"
}

// NewCommissionLedgerRow opens an unpaid commission row for an order
func NewCommissionLedgerRow(orderID, doctorID uuid.UUID, totalBill, rate decimal.Decimal) (*CommissionLedgerRow, error) {
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be positive")
	}
	row := &CommissionLedgerRow{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         orderID,
		DoctorID:        doctorID,
		TotalBillAmount: totalBill,
		CommissionRate:  rate,
		Status:          CommissionStatusUnpaid,
	}
	row.TransactionDate = row.CreatedAt
	return row, nil
}

// Calculate returns total × rate / 100 rounded to two places
func (c *CommissionLedgerRow) Calculate() decimal.Decimal {
	return c.TotalBillAmount.Mul(c.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}

// IsSettled reports whether any of the commission has been paid out
func (c *CommissionLedgerRow) IsSettled() bool {
	return c.Status == CommissionStatusPaid || !c.PaidAmount.IsZero()
}

// EnsureRemovable returns COMMISSION_ALREADY_PAID once the row has been settled
func (c *CommissionLedgerRow) EnsureRemovable() error {
	if !c.IsSettled() {
		return nil
	}
	return ErrCommissionAlreadyPaid.
		WithDetail("order_id", c.OrderID.String()).
		WithDetail("paid_amount", c.PaidAmount.String())
}

// Settle pays the commission out in full
func (c *CommissionLedgerRow) Settle(at time.Time) (decimal.Decimal, error) {
	if c.Status == CommissionStatusPaid {
		return decimal.Zero, ErrCommissionAlreadyPaid.WithDetail("order_id", c.OrderID.String())
	}
	amount := c.Calculate()
	c.CalculatedAmount = amount
	c.PaidAmount = amount
	c.Status = CommissionStatusPaid
	c.PaidAt = &at
	c.UpdatedAt = at
	return amount, nil
}
