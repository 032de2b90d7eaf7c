package laborder

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*lab.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lab.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*lab.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lab.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderIDByResultID(ctx context.Context, resultID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *lab.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *lab.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInventoryItemRepository struct {
	mock.Mock
}

func (m *MockInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryItemRepository) UpdateStock(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CommissionLedgerRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CommissionLedgerRow), args.Error(1)
}

func (m *MockCommissionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.CommissionLedgerRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CommissionLedgerRow), args.Error(1)
}

func (m *MockCommissionRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*finance.CommissionLedgerRow, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CommissionLedgerRow), args.Error(1)
}

func (m *MockCommissionRepository) Create(ctx context.Context, row *finance.CommissionLedgerRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockCommissionRepository) Save(ctx context.Context, row *finance.CommissionLedgerRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRecorder struct {
	mock.Mock
}

func (m *MockPaymentRecorder) Record(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Patient), args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Doctor), args.Error(1)
}

type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TestDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.TestDefinition), args.Error(1)
}

func (m *MockTestRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.TestDefinition, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.TestDefinition), args.Error(1)
}

type MockPanelRepository struct {
	mock.Mock
}

func (m *MockPanelRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Panel, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Panel), args.Error(1)
}

type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) FindByTestIDs(ctx context.Context, testIDs []uuid.UUID) ([]catalog.ConsumptionRecipe, error) {
	args := m.Called(ctx, testIDs)
	return args.Get(0).([]catalog.ConsumptionRecipe), args.Error(1)
}

type MockCredentialVerifier struct {
	mock.Mock
}

func (m *MockCredentialVerifier) VerifyCredential(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// mockRepos bundles one mock per repository
type mockRepos struct {
	orders      *MockOrderRepository
	inventory   *MockInventoryItemRepository
	commissions *MockCommissionRepository
	payments    *MockPaymentRecorder
	patients    *MockPatientRepository
	doctors     *MockDoctorRepository
	tests       *MockTestRepository
	panels      *MockPanelRepository
	recipes     *MockRecipeRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		orders:      new(MockOrderRepository),
		inventory:   new(MockInventoryItemRepository),
		commissions: new(MockCommissionRepository),
		payments:    new(MockPaymentRecorder),
		patients:    new(MockPatientRepository),
		doctors:     new(MockDoctorRepository),
		tests:       new(MockTestRepository),
		panels:      new(MockPanelRepository),
		recipes:     new(MockRecipeRepository),
	}
}

func (r *mockRepos) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(Repositories{
		Orders:      r.orders,
		Inventory:   r.inventory,
		Commissions: r.commissions,
		Payments:    r.payments,
		Patients:    r.patients,
		Doctors:     r.doctors,
		Tests:       r.tests,
		Panels:      r.panels,
		Recipes:     r.recipes,
	})
}

func (r *mockRepos) assertExpectations(t mock.TestingT) {
	r.orders.AssertExpectations(t)
	r.inventory.AssertExpectations(t)
	r.commissions.AssertExpectations(t)
	r.payments.AssertExpectations(t)
	r.patients.AssertExpectations(t)
	r.doctors.AssertExpectations(t)
	r.tests.AssertExpectations(t)
	r.panels.AssertExpectations(t)
	r.recipes.AssertExpectations(t)
}
