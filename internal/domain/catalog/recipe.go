package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionRecipe says how much of an inventory item one test consumes
type ConsumptionRecipe struct {
	TestID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ConsumptionRecipe) TableName() string {
	return "lab_consumption_recipes"
}

// GroupByTest indexes recipes by test id, preserving input order within a test
func GroupByTest(recipes []ConsumptionRecipe) map[uuid.UUID][]ConsumptionRecipe {
	out := make(map[uuid.UUID][]ConsumptionRecipe)
	for _, r := range recipes {
		out[r.TestID] = append(out[r.TestID], r)
	}
	return out
}
