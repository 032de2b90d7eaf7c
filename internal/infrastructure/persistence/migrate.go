package persistence

import (
	"fmt"
	"time"

	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// SystemSetting is a key/value row for station-wide settings
type SystemSetting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SystemSetting) TableName() string {
	return "system_settings"
}

// Models lists every persisted type in dependency order
func Models() []any {
	return []any{
		&partner.Patient{},
		&partner.Doctor{},
		&catalog.TestDefinition{},
		&catalog.ReferenceRange{},
		&catalog.Panel{},
		&catalog.ConsumptionRecipe{},
		&inventory.InventoryItem{},
		&lab.Order{},
		&lab.Result{},
		&finance.CommissionLedgerRow{},
		&finance.Payment{},
		&SystemSetting{},
	}
}

// AutoMigrate creates or updates the schema for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
