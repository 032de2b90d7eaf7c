package catalog

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TestDefinition is an orderable laboratory test.
// Price stays null until the test is priced by master-data management.
type TestDefinition struct {
	shared.BaseEntity
	Name       string              `gorm:"type:varchar(200);not null"`
	Code       string              `gorm:"type:varchar(50);uniqueIndex"`
	Price      decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	Department string              `gorm:"type:varchar(100)"`
	Unit       string              `gorm:"type:varchar(50)"`
	// Fallback bounds, used only when the test has no reference ranges at all
	DefaultMin decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	DefaultMax decimal.NullDecimal `gorm:"type:decimal(18,4)"`

	ReferenceRanges []ReferenceRange `gorm:"foreignKey:TestID;references:ID"`
}

// TableName returns the table name for GORM
func (TestDefinition) TableName() string {
	return "lab_tests"
}

// NewTestDefinition creates an unpriced test definition
func NewTestDefinition(name, code, department string) (*TestDefinition, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Test name cannot be empty")
	}
	return &TestDefinition{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Code:       code,
		Department: department,
	}, nil
}

// SetPrice prices the test
func (t *TestDefinition) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	t.Price = decimal.NewNullDecimal(price)
	return nil
}

// AddReferenceRange appends a range scoped to the given gender and age window
func (t *TestDefinition) AddReferenceRange(r ReferenceRange) {
	r.TestID = t.ID
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.Position = len(t.ReferenceRanges)
	t.ReferenceRanges = append(t.ReferenceRanges, r)
}

// BoundsFor resolves the numeric bounds used to classify a result for a patient.
// The default min/max applies only when no ranges exist; ranges that exist but
// do not match the patient yield empty bounds.
func (t *TestDefinition) BoundsFor(gender valueobject.Gender, age int) Bounds {
	if len(t.ReferenceRanges) == 0 {
		return Bounds{Min: t.DefaultMin, Max: t.DefaultMax}
	}
	r, ok := SelectReferenceRange(t.ReferenceRanges, gender, age)
	if !ok {
		return Bounds{}
	}
	return r.Bounds()
}
