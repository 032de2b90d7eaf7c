package persistence

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredOrder(t *testing.T, repo *GormOrderRepository, s seed) *lab.Order {
	t.Helper()
	patient := s.patient(valueobject.GenderMale, 40)
	hb := s.test("HB", "300", ranged(valueobject.GenderBoth, "13", "17"))
	wbc := s.test("WBC", "200")
	order, err := lab.NewOrder(patient.ID, nil, lab.Selection{Tests: []catalog.TestDefinition{*hb, *wbc}}, decimal.Zero, dec("100"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(bg, order))
	return order
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	order := newStoredOrder(t, repo, seeder(t, db))

	found, err := repo.FindByID(bg, order.ID)
	require.NoError(t, err)

	assert.Equal(t, lab.OrderStatusPending, found.Status)
	assert.True(t, found.TotalAmount.Equal(dec("500")))
	assert.True(t, found.BalanceDue.Equal(dec("400")))
	require.Len(t, found.Results, 2)
	assert.Equal(t, 0, found.Results[0].Position)
	assert.Equal(t, 1, found.Results[1].Position)
	assert.Equal(t, order.Results[0].ID, found.Results[0].ID)

	locked, err := repo.FindByIDForUpdate(bg, order.ID)
	require.NoError(t, err)
	assert.Len(t, locked.Results, 2)
}

func TestGormOrderRepository_FindMissing(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))

	_, err := repo.FindByID(bg, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = repo.FindOrderIDByResultID(bg, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormOrderRepository_FindOrderIDByResultID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	order := newStoredOrder(t, repo, seeder(t, db))

	id, err := repo.FindOrderIDByResultID(bg, order.Results[1].ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, id)
}

func TestGormOrderRepository_Save(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	order := newStoredOrder(t, repo, seeder(t, db))

	t.Run("persists results and bumps version", func(t *testing.T) {
		loaded, err := repo.FindByIDForUpdate(bg, order.ID)
		require.NoError(t, err)
		version := loaded.Version

		values := map[uuid.UUID]string{
			loaded.Results[0].ID: "18",
			loaded.Results[1].ID: "7",
		}
		bounds := func(uuid.UUID) catalog.Bounds { return catalog.Bounds{} }
		require.NoError(t, loaded.SaveResults(values, "tech-1", time.Now(), bounds))
		require.NoError(t, repo.Save(bg, loaded))
		assert.Equal(t, version+1, loaded.Version)

		reloaded, err := repo.FindByID(bg, order.ID)
		require.NoError(t, err)
		assert.Equal(t, lab.OrderStatusCompleted, reloaded.Status)
		assert.Equal(t, version+1, reloaded.Version)
		assert.Equal(t, "18", reloaded.Results[0].Value)
		assert.Equal(t, "tech-1", reloaded.Results[1].PerformedBy)
		assert.NotNil(t, reloaded.CompletedAt)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByID(bg, order.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(bg, order.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Save(bg, fresh))

		version := stale.Version
		err = repo.Save(bg, stale)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
		assert.Equal(t, version, stale.Version)
	})
}

func TestGormOrderRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	order := newStoredOrder(t, repo, seeder(t, db))

	require.NoError(t, repo.Delete(bg, order.ID))

	_, err := repo.FindByID(bg, order.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	var remaining int64
	require.NoError(t, db.Model(&lab.Result{}).Where("order_id = ?", order.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.True(t, errors.Is(repo.Delete(bg, order.ID), shared.ErrNotFound))
}
