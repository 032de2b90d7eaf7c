package laborder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultConflictRetries is how often order creation is retried after a stock version conflict
const DefaultConflictRetries = 3

// OrderService creates lab orders and handles their delivery bookkeeping
type OrderService struct {
	txScope         TransactionScope
	orderRepo       lab.OrderRepository
	eventPublisher  shared.EventPublisher
	metrics         *telemetry.LabMetrics
	logger          *zap.Logger
	conflictRetries int
	now             func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(txScope TransactionScope, orderRepo lab.OrderRepository, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		txScope:         txScope,
		orderRepo:       orderRepo,
		logger:          log,
		conflictRetries: DefaultConflictRetries,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher used after commit
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLabMetrics sets the business metrics collector
func (s *OrderService) SetLabMetrics(m *telemetry.LabMetrics) {
	s.metrics = m
}

// SetConflictRetries sets how many times a conflicting creation is retried
func (s *OrderService) SetConflictRetries(n int) {
	if n < 0 {
		n = 0
	}
	s.conflictRetries = n
}

// CreateOrder builds, prices and persists an order, deducting every consumable
// its tests require. Either the order, its results, all stock deductions and the
// optional commission row commit together or nothing does.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lab_order", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPatientID, req.PatientID.String(),
		"test_count", len(req.TestIDs),
		"panel_count", len(req.PanelIDs),
	)

	if len(uniqueIDs(req.TestIDs)) == 0 && len(uniqueIDs(req.PanelIDs)) == 0 {
		telemetry.RecordError(span, lab.ErrNoTestsSelected)
		return nil, lab.ErrNoTestsSelected
	}

	var (
		order  *lab.Order
		events []shared.DomainEvent
		err    error
	)
	telemetry.ForOperation(telemetry.OperationCreateLabOrder).Do(ctx, func(c context.Context) {
		for attempt := 0; ; attempt++ {
			order, events, err = s.createOnce(c, req)
			if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= s.conflictRetries {
				return
			}
			s.metrics.RecordConflictRetry(c, telemetry.OperationCreateLabOrder)
			logger.WithLogger(c, s.logger).Warn("stock changed concurrently, retrying order creation",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithLogger(ctx, s.logger).Warn("order creation refused",
			zap.String("patient_id", req.PatientID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, events)
	s.metrics.RecordOrderCreated(ctx, order.TotalAmount)
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, order.ID.String())
	telemetry.SetOK(span)

	logger.WithLogger(ctx, s.logger).Info("lab order created",
		zap.String("order_id", order.ID.String()),
		zap.String("patient_id", order.PatientID.String()),
		zap.Int("tests", len(order.Results)),
		zap.String("total", order.TotalAmount.String()),
		zap.String("balance_due", order.BalanceDue.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) createOnce(ctx context.Context, req CreateOrderRequest) (*lab.Order, []shared.DomainEvent, error) {
	var (
		order  *lab.Order
		events []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		patient, err := repos.PatientRepo().FindByID(ctx, req.PatientID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return partner.ErrPatientNotFound.WithDetail("patient_id", req.PatientID.String())
			}
			return err
		}

		// An unknown doctor id is treated as no referring doctor.
		var doctor *partner.Doctor
		if req.DoctorID != nil && *req.DoctorID != uuid.Nil {
			doctor, err = repos.DoctorRepo().FindByID(ctx, *req.DoctorID)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				doctor = nil
			}
		}

		selection, err := s.resolveSelection(ctx, repos, req)
		if err != nil {
			return err
		}

		var doctorID *uuid.UUID
		if doctor != nil {
			id := doctor.ID
			doctorID = &id
		}
		order, err = lab.NewOrder(patient.ID, doctorID, selection, req.Discount, req.CashPaid)
		if err != nil {
			return err
		}

		touched, err := s.deductInventory(ctx, repos, order)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}

		if doctor != nil && doctor.EarnsCommission() {
			row, err := finance.NewCommissionLedgerRow(order.ID, doctor.ID, order.TotalAmount, doctor.CommissionRate)
			if err != nil {
				return err
			}
			if err := repos.CommissionRepo().Create(ctx, row); err != nil {
				return err
			}
		}

		events = order.PullDomainEvents()
		for _, item := range touched {
			events = append(events, item.PullDomainEvents()...)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, events, nil
}

func (s *OrderService) resolveSelection(ctx context.Context, repos TransactionalRepositories, req CreateOrderRequest) (lab.Selection, error) {
	var selection lab.Selection
	if ids := uniqueIDs(req.PanelIDs); len(ids) > 0 {
		panels, err := repos.PanelRepo().FindByIDs(ctx, ids)
		if err != nil {
			return selection, err
		}
		selection.Panels = panels
	}
	if ids := uniqueIDs(req.TestIDs); len(ids) > 0 {
		tests, err := repos.TestRepo().FindByIDs(ctx, ids)
		if err != nil {
			return selection, err
		}
		selection.Tests = tests
	}
	return selection, nil
}

// deductInventory checks and decrements stock test by test. Item rows are
// locked up front so two orders racing for the same item serialize.
func (s *OrderService) deductInventory(ctx context.Context, repos TransactionalRepositories, order *lab.Order) ([]*inventory.InventoryItem, error) {
	recipes, err := repos.RecipeRepo().FindByTestIDs(ctx, order.TestIDs())
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		itemIDs = append(itemIDs, r.InventoryItemID)
	}
	itemIDs = uniqueIDs(itemIDs)

	items, err := repos.InventoryRepo().FindByIDsForUpdate(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	byTest := catalog.GroupByTest(recipes)
	for _, result := range order.Results {
		for _, line := range byTest[result.TestID] {
			item, ok := byID[line.InventoryItemID]
			if !ok {
				return nil, shared.ErrInsufficientStock.
					WithDetail("test_id", result.TestID.String()).
					WithDetail("test", result.TestName).
					WithDetail("item_id", line.InventoryItemID.String()).
					WithDetail("required", line.Quantity.String()).
					WithDetail("available", "none")
			}
			if err := item.Deduct(line.Quantity, order.ID, result.TestID); err != nil {
				var de *shared.DomainError
				if errors.As(err, &de) {
					return nil, de.WithDetail("test", result.TestName)
				}
				return nil, err
			}
		}
	}

	touched := make([]*inventory.InventoryItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			continue
		}
		if err := repos.InventoryRepo().UpdateStock(ctx, item); err != nil {
			return nil, err
		}
		touched = append(touched, item)
	}
	return touched, nil
}

// GetOrder returns an order with its results
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, lab.ErrOrderNotFound.WithDetail("order_id", orderID.String())
		}
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// MarkDelivered records that the report of a completed order was handed over
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *lab.Order) error {
		return order.MarkDelivered(s.now())
	})
}

// RecordReprint counts a reprint of the report and clears the reprint flag
func (s *OrderService) RecordReprint(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *lab.Order) error {
		return order.RecordReprint()
	})
}

func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(*lab.Order) error) (*OrderResponse, error) {
	var (
		order  *lab.Order
		events []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		events = order.PullDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, events)
	response := ToOrderResponse(order)
	return &response, nil
}
