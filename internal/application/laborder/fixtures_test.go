package laborder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newPatient(t *testing.T) *partner.Patient {
	t.Helper()
	p, err := partner.NewPatient("Jane Roe", valueobject.GenderFemale, 34)
	require.NoError(t, err)
	return p
}

func newDoctor(t *testing.T, rate string) *partner.Doctor {
	t.Helper()
	d, err := partner.NewDoctor("Dr. Okafor", dec(rate))
	require.NoError(t, err)
	return d
}

func newTest(t *testing.T, code, price string) catalog.TestDefinition {
	t.Helper()
	td, err := catalog.NewTestDefinition(code+" test", code, "Haematology")
	require.NoError(t, err)
	if price != "" {
		require.NoError(t, td.SetPrice(dec(price)))
	}
	return *td
}

func newRangedTest(t *testing.T, code, price, lo, hi string) catalog.TestDefinition {
	t.Helper()
	td := newTest(t, code, price)
	td.AddReferenceRange(catalog.ReferenceRange{
		Gender: valueobject.GenderBoth,
		MinVal: decimal.NewNullDecimal(dec(lo)),
		MaxVal: decimal.NewNullDecimal(dec(hi)),
	})
	return td
}

func newItem(t *testing.T, name, stock string) inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(name, "pcs")
	require.NoError(t, err)
	if stock != "" {
		item.CurrentStock = decimal.NewNullDecimal(dec(stock))
	}
	return *item
}

func recipe(test catalog.TestDefinition, item inventory.InventoryItem, qty string) catalog.ConsumptionRecipe {
	return catalog.ConsumptionRecipe{TestID: test.ID, InventoryItemID: item.ID, Quantity: dec(qty)}
}

func noBounds(uuid.UUID) catalog.Bounds { return catalog.Bounds{} }

func newOrder(t *testing.T, patient *partner.Patient, paid string, tests ...catalog.TestDefinition) *lab.Order {
	t.Helper()
	o, err := lab.NewOrder(patient.ID, nil, lab.Selection{Tests: tests}, decimal.Zero, dec(paid))
	require.NoError(t, err)
	o.PullDomainEvents()
	return o
}
