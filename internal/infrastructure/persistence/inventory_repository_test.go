package persistence

import (
	"database/sql"
	"errors"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens GORM on a mocked connection under the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func TestGormInventoryItemRepository_FindByIDsForUpdate(t *testing.T) {
	t.Run("locks rows in id order", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInventoryItemRepository(db)

		a, b := uuid.New(), uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "current_stock", "version"}).
			AddRow(a.String(), "EDTA tube", "10", 1).
			AddRow(b.String(), "Reagent", "3.5", 4)
		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
			WithArgs(a, b).
			WillReturnRows(rows)

		items, err := repo.FindByIDsForUpdate(bg, []uuid.UUID{a, b})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.True(t, items[1].CurrentStock.Decimal.Equal(dec("3.5")))
		assert.Equal(t, 4, items[1].Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids issues no query", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		items, err := NewGormInventoryItemRepository(db).FindByIDsForUpdate(bg, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sqlite skips unknown ids", func(t *testing.T) {
		db := newTestDB(t)
		s := seeder(t, db)
		first := s.item("EDTA tube", "10")
		second := s.item("Slide", "")

		items, err := NewGormInventoryItemRepository(db).
			FindByIDsForUpdate(bg, []uuid.UUID{second.ID, uuid.New(), first.ID})
		require.NoError(t, err)
		require.Len(t, items, 2)

		ids := []string{items[0].ID.String(), items[1].ID.String()}
		assert.True(t, sort.StringsAreSorted(ids))
	})
}

func TestGormInventoryItemRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormInventoryItemRepository(db)

	_, err := repo.FindByID(bg, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormInventoryItemRepository_UpdateStock(t *testing.T) {
	t.Run("writes stock and bumps version", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormInventoryItemRepository(db)
		item := seeder(t, db).item("EDTA tube", "10")

		require.NoError(t, item.Deduct(dec("2"), uuid.New(), uuid.New()))
		require.NoError(t, repo.UpdateStock(bg, item))
		assert.Equal(t, 2, item.Version)

		stored, err := repo.FindByID(bg, item.ID)
		require.NoError(t, err)
		assert.True(t, stored.Available().Equal(dec("8")))
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("stale copy conflicts", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormInventoryItemRepository(db)
		item := seeder(t, db).item("Reagent", "5")

		stale, err := repo.FindByID(bg, item.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(bg, item.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Deduct(dec("1"), uuid.New(), uuid.New()))
		require.NoError(t, repo.UpdateStock(bg, fresh))

		require.NoError(t, stale.Deduct(dec("1"), uuid.New(), uuid.New()))
		err = repo.UpdateStock(bg, stale)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
		assert.Equal(t, shared.CategoryNotPermitted, shared.CategoryOf(err))

		stored, err := repo.FindByID(bg, item.ID)
		require.NoError(t, err)
		assert.True(t, stored.Available().Equal(dec("4")))
	})

	t.Run("zero rows affected under postgres", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInventoryItemRepository(db)
		item := seeder(t, newTestDB(t)).item("Slide", "3")

		mock.ExpectExec(`UPDATE "inventory_items" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStock(bg, item)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
		assert.Equal(t, 1, item.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "lab_orders" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormOrderRepository(db).FindByIDForUpdate(bg, id)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
