package partner

import (
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Doctor is a referring doctor earning a percentage commission on orders
type Doctor struct {
	shared.BaseEntity
	Name           string          `gorm:"type:varchar(200);not null"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // percent
	Phone          string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Doctor) TableName() string {
	return "doctors"
}

// NewDoctor creates a referring doctor
func NewDoctor(name string, commissionRate decimal.Decimal) (*Doctor, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Doctor name cannot be empty")
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 100")
	}
	return &Doctor{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		CommissionRate: commissionRate,
	}, nil
}

// EarnsCommission reports whether orders referred by the doctor open a commission row
func (d *Doctor) EarnsCommission() bool {
	return d.CommissionRate.IsPositive()
}
