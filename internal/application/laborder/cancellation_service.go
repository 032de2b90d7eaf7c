package laborder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/inventory"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CancellationService guards and performs order cancellation
type CancellationService struct {
	txScope        TransactionScope
	verifier       CredentialVerifier
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LabMetrics
	logger         *zap.Logger
}

// NewCancellationService creates a new CancellationService
func NewCancellationService(txScope TransactionScope, verifier CredentialVerifier, log *zap.Logger) *CancellationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CancellationService{
		txScope:  txScope,
		verifier: verifier,
		logger:   log,
	}
}

// SetEventPublisher sets the event publisher used after commit
func (s *CancellationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLabMetrics sets the business metrics collector
func (s *CancellationService) SetLabMetrics(m *telemetry.LabMetrics) {
	s.metrics = m
}

// CanCancel reports whether the order is PENDING with no lab activity
func (s *CancellationService) CanCancel(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var ok bool
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return notFoundAsOrder(err, orderID)
		}
		ok = order.CanCancel()
		return nil
	})
	return ok, err
}

// MarkUnderLabReview moves a PENDING order to IN_PROGRESS. Other states are left as is.
func (s *CancellationService) MarkUnderLabReview(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.toggleReview(ctx, orderID, (*lab.Order).MarkUnderLabReview)
}

// ReleaseLabReview moves an IN_PROGRESS order back to PENDING if no lab work happened
func (s *CancellationService) ReleaseLabReview(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.toggleReview(ctx, orderID, (*lab.Order).ReleaseLabReview)
}

func (s *CancellationService) toggleReview(ctx context.Context, orderID uuid.UUID, transition func(*lab.Order) bool) (*OrderResponse, error) {
	var order *lab.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if !transition(order) {
			return nil
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// CancelOrder verifies the approval credential, then in one transaction
// restocks consumed inventory, removes the unpaid commission row, posts a
// refund for any cash taken and deletes the order with its results.
func (s *CancellationService) CancelOrder(ctx context.Context, req CancelOrderRequest) (*CancellationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lab_order", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, req.OrderID.String())
	log := logger.WithLogger(ctx, s.logger)

	// Checked before the order is read so a bad credential learns nothing about it.
	if err := s.verifier.VerifyCredential(ctx, req.ApprovalCredential); err != nil {
		telemetry.RecordError(span, err)
		log.Warn("order cancellation not approved",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	var (
		result CancellationResult
		events []shared.DomainEvent
		err    error
	)
	telemetry.ForOperation(telemetry.OperationCancelLabOrder).Do(ctx, func(c context.Context) {
		err = s.txScope.Execute(c, func(repos TransactionalRepositories) error {
			order, err := lockOrder(c, repos, req.OrderID)
			if err != nil {
				return err
			}
			if err := order.EnsureCancellable(); err != nil {
				return err
			}

			items, err := s.restockInventory(c, repos, order)
			if err != nil {
				return err
			}

			row, err := repos.CommissionRepo().FindByOrderID(c, order.ID)
			if err != nil {
				return err
			}
			if row != nil {
				if err := row.EnsureRemovable(); err != nil {
					return err
				}
				if err := repos.CommissionRepo().Delete(c, row.ID); err != nil {
					return err
				}
			}

			refund := decimal.Zero
			if order.PaidAmount.IsPositive() {
				refund = order.PaidAmount
				payment, err := finance.NewPayment(
					finance.PaymentTypeExpense,
					finance.PaymentCategoryRefund,
					fmt.Sprintf("Refund for cancelled lab order %s", order.ID),
					refund,
					finance.PaymentMethodCash,
				)
				if err != nil {
					return err
				}
				if err := repos.Payments().Record(c, payment); err != nil {
					return err
				}
			}

			order.MarkCancelled(refund, len(items))
			if err := repos.OrderRepo().Delete(c, order.ID); err != nil {
				return err
			}

			result = CancellationResult{OrderID: order.ID, RefundAmount: refund}
			events = order.PullDomainEvents()
			for _, item := range items {
				events = append(events, item.PullDomainEvents()...)
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if shared.CategoryOf(err) == shared.CategoryIntegrity {
			log.Error("order cancellation hit a data integrity problem",
				zap.String("order_id", req.OrderID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, events)
	s.metrics.RecordOrderCancelled(ctx, result.RefundAmount)
	telemetry.SetOK(span)
	log.Info("lab order cancelled",
		zap.String("order_id", result.OrderID.String()),
		zap.String("refund", result.RefundAmount.String()),
	)
	return &result, nil
}

// restockInventory returns what the order's tests consumed, summed per item
// across all tests. Results whose test no longer resolves are skipped.
func (s *CancellationService) restockInventory(ctx context.Context, repos TransactionalRepositories, order *lab.Order) ([]*inventory.InventoryItem, error) {
	tests, err := repos.TestRepo().FindByIDs(ctx, uniqueIDs(order.TestIDs()))
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(tests))
	for _, t := range tests {
		known[t.ID] = struct{}{}
	}
	testIDs := make([]uuid.UUID, 0, len(order.Results))
	for _, r := range order.Results {
		if _, ok := known[r.TestID]; ok {
			testIDs = append(testIDs, r.TestID)
		}
	}
	if len(testIDs) == 0 {
		return nil, nil
	}

	recipes, err := repos.RecipeRepo().FindByTestIDs(ctx, uniqueIDs(testIDs))
	if err != nil {
		return nil, err
	}
	byTest := catalog.GroupByTest(recipes)

	totals := make(map[uuid.UUID]decimal.Decimal)
	itemIDs := make([]uuid.UUID, 0)
	for _, testID := range testIDs {
		for _, line := range byTest[testID] {
			if _, seen := totals[line.InventoryItemID]; !seen {
				itemIDs = append(itemIDs, line.InventoryItemID)
			}
			totals[line.InventoryItemID] = totals[line.InventoryItemID].Add(line.Quantity)
		}
	}
	if len(itemIDs) == 0 {
		return nil, nil
	}

	items, err := repos.InventoryRepo().FindByIDsForUpdate(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for _, id := range itemIDs {
		if _, ok := byID[id]; !ok {
			return nil, inventory.ErrInventoryItemMissing.
				WithDetail("item_id", id.String()).
				WithDetail("order_id", order.ID.String())
		}
	}

	restocked := make([]*inventory.InventoryItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if err := item.Restock(totals[item.ID], order.ID); err != nil {
			return nil, err
		}
		if err := repos.InventoryRepo().UpdateStock(ctx, item); err != nil {
			return nil, err
		}
		restocked = append(restocked, item)
	}
	return restocked, nil
}

func notFoundAsOrder(err error, orderID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return lab.ErrOrderNotFound.WithDetail("order_id", orderID.String())
	}
	return err
}
