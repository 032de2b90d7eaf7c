package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
// A single connection mirrors the production sqlite setup.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type seed struct {
	db *gorm.DB
	t  *testing.T
}

func seeder(t *testing.T, db *gorm.DB) seed {
	return seed{db: db, t: t}
}

func (s seed) patient(gender valueobject.Gender, age int) *partner.Patient {
	s.t.Helper()
	p, err := partner.NewPatient("Ama Mensah", gender, age)
	require.NoError(s.t, err)
	require.NoError(s.t, s.db.Create(p).Error)
	return p
}

func (s seed) doctor(rate string) *partner.Doctor {
	s.t.Helper()
	d, err := partner.NewDoctor("Dr. Haddad", dec(rate))
	require.NoError(s.t, err)
	require.NoError(s.t, s.db.Create(d).Error)
	return d
}

func (s seed) test(code, price string, ranges ...catalog.ReferenceRange) *catalog.TestDefinition {
	s.t.Helper()
	td, err := catalog.NewTestDefinition(code+" test", code, "Haematology")
	require.NoError(s.t, err)
	if price != "" {
		require.NoError(s.t, td.SetPrice(dec(price)))
	}
	for _, r := range ranges {
		td.AddReferenceRange(r)
	}
	require.NoError(s.t, s.db.Create(td).Error)
	return td
}

func (s seed) panel(name, price string, tests ...catalog.TestDefinition) *catalog.Panel {
	s.t.Helper()
	p, err := catalog.NewPanel(name, tests...)
	require.NoError(s.t, err)
	if price != "" {
		p.Price = decimal.NewNullDecimal(dec(price))
	}
	require.NoError(s.t, s.db.Omit("Tests.*").Create(p).Error)
	return p
}

func (s seed) item(name, stock string) *inventory.InventoryItem {
	s.t.Helper()
	item, err := inventory.NewInventoryItem(name, "pcs")
	require.NoError(s.t, err)
	if stock != "" {
		item.CurrentStock = decimal.NewNullDecimal(dec(stock))
	}
	require.NoError(s.t, s.db.Create(item).Error)
	return item
}

func (s seed) recipe(test *catalog.TestDefinition, item *inventory.InventoryItem, qty string) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(&catalog.ConsumptionRecipe{
		TestID:          test.ID,
		InventoryItemID: item.ID,
		Quantity:        dec(qty),
	}).Error)
}

func ranged(gender valueobject.Gender, lo, hi string) catalog.ReferenceRange {
	return catalog.ReferenceRange{
		Gender: gender,
		MinVal: decimal.NewNullDecimal(dec(lo)),
		MaxVal: decimal.NewNullDecimal(dec(hi)),
	}
}

var bg = context.Background()
