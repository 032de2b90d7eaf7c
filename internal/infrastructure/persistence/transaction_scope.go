package persistence

import (
	"context"
	"time"

	appfinance "github.com/labcore/backend/internal/application/finance"
	"github.com/labcore/backend/internal/application/laborder"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// WithTimeout bounds every transaction run through the scope
func (s *GormTransactionScope) WithTimeout(d time.Duration) *GormTransactionScope {
	s.timeout = d
	return s
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos laborder.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Finance returns a view of the scope for commission payouts
func (s *GormTransactionScope) Finance() *FinanceTransactionScope {
	return &FinanceTransactionScope{scope: s}
}

// FinanceTransactionScope runs commission work on the same transaction machinery
type FinanceTransactionScope struct {
	scope *GormTransactionScope
}

// Execute runs fn within a database transaction
func (f *FinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return f.scope.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) OrderRepo() lab.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) CommissionRepo() finance.CommissionRepository {
	return NewGormCommissionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRecorder {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) PatientRepo() partner.PatientRepository {
	return NewGormPatientRepository(r.tx)
}

func (r *gormTransactionalRepositories) DoctorRepo() partner.DoctorRepository {
	return NewGormDoctorRepository(r.tx)
}

func (r *gormTransactionalRepositories) TestRepo() catalog.TestRepository {
	return NewGormTestRepository(r.tx)
}

func (r *gormTransactionalRepositories) PanelRepo() catalog.PanelRepository {
	return NewGormPanelRepository(r.tx)
}

func (r *gormTransactionalRepositories) RecipeRepo() catalog.RecipeRepository {
	return NewGormRecipeRepository(r.tx)
}

var (
	_ laborder.TransactionScope            = (*GormTransactionScope)(nil)
	_ laborder.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appfinance.TransactionScope          = (*FinanceTransactionScope)(nil)
	_ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
