package laborder

import (
	"context"

	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories the lab
// order operations touch. All repository operations inside Execute are part of
// one database transaction and commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// Catalog and partner reads go through the transaction too so that a single
// connection database never waits on itself.
type TransactionalRepositories interface {
	OrderRepo() lab.OrderRepository
	InventoryRepo() inventory.InventoryItemRepository
	CommissionRepo() finance.CommissionRepository
	Payments() finance.PaymentRecorder
	PatientRepo() partner.PatientRepository
	DoctorRepo() partner.DoctorRepository
	TestRepo() catalog.TestRepository
	PanelRepo() catalog.PanelRepository
	RecipeRepo() catalog.RecipeRepository
}

// Repositories is a plain set of repositories
type Repositories struct {
	Orders      lab.OrderRepository
	Inventory   inventory.InventoryItemRepository
	Commissions finance.CommissionRepository
	Payments    finance.PaymentRecorder
	Patients    partner.PatientRepository
	Doctors     partner.DoctorRepository
	Tests       catalog.TestRepository
	Panels      catalog.PanelRepository
	Recipes     catalog.RecipeRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) OrderRepo() lab.OrderRepository                  { return s.repos.Orders }
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryItemRepository { return s.repos.Inventory }
func (s *NoOpTransactionScope) CommissionRepo() finance.CommissionRepository     { return s.repos.Commissions }
func (s *NoOpTransactionScope) Payments() finance.PaymentRecorder               { return s.repos.Payments }
func (s *NoOpTransactionScope) PatientRepo() partner.PatientRepository          { return s.repos.Patients }
func (s *NoOpTransactionScope) DoctorRepo() partner.DoctorRepository            { return s.repos.Doctors }
func (s *NoOpTransactionScope) TestRepo() catalog.TestRepository                { return s.repos.Tests }
func (s *NoOpTransactionScope) PanelRepo() catalog.PanelRepository              { return s.repos.Panels }
func (s *NoOpTransactionScope) RecipeRepo() catalog.RecipeRepository            { return s.repos.Recipes }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
