package finance

import (
	"context"
	"time"

	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType represents the direction of a payment
type PaymentType string

const (
	PaymentTypeIncome     PaymentType = "INCOME"
	PaymentTypeExpense    PaymentType = "EXPENSE"
	PaymentTypeAdjustment PaymentType = "ADJUSTMENT"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeIncome, PaymentTypeExpense, PaymentTypeAdjustment:
		return true
	}
	return false
}

// Payment categories written by the lab core
const (
	PaymentCategoryRefund     = "REFUND"
	PaymentCategoryCommission = "COMMISSION"
)

// Default payment method for refunds and payouts
const PaymentMethodCash = "CASH"

// Payment is a row of the cash book
type Payment struct {
	shared.BaseEntity
	Type        PaymentType     `gorm:"type:varchar(20);not null;index"`
	Category    string          `gorm:"type:varchar(50);not null;index"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method      string          `gorm:"type:varchar(30);not null;default:'CASH'"`
	PaidAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment row
func NewPayment(paymentType PaymentType, category, description string, amount decimal.Decimal, method string) (*Payment, error) {
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unknown payment type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		method = PaymentMethodCash
	}
	p := &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        paymentType,
		Category:    category,
		Description: description,
		Amount:      amount,
		Method:      method,
	}
	p.PaidAt = p.CreatedAt
	return p, nil
}

// PaymentRecorder is the sink payments are recorded into
type PaymentRecorder interface {
	Record(ctx context.Context, payment *Payment) error
}
