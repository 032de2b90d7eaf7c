package catalog

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Panel is a named bundle of tests. A flat price, when set, replaces the
// sum of the member tests' individual prices.
type Panel struct {
	shared.BaseEntity
	Name  string              `gorm:"type:varchar(200);not null"`
	Price decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	Tests []TestDefinition    `gorm:"many2many:lab_panel_tests;joinForeignKey:PanelID;joinReferences:TestID"`
}

// TableName returns the table name for GORM
func (Panel) TableName() string {
	return "lab_panels"
}

// NewPanel creates a panel over the given member tests
func NewPanel(name string, tests ...TestDefinition) (*Panel, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Panel name cannot be empty")
	}
	return &Panel{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Tests:      tests,
	}, nil
}

// HasFlatPrice reports whether the panel is sold at its own price
func (p *Panel) HasFlatPrice() bool {
	return p.Price.Valid
}

// TestIDs returns the member test ids
func (p *Panel) TestIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Tests))
	for _, t := range p.Tests {
		ids = append(ids, t.ID)
	}
	return ids
}
