package laborder

import (
	"context"
	"errors"
	"time"

	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ResultService records lab result values and keeps order status in step
type ResultService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LabMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewResultService creates a new ResultService
func NewResultService(txScope TransactionScope, log *zap.Logger) *ResultService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultService{
		txScope: txScope,
		logger:  log,
		now:     time.Now,
	}
}

// SetEventPublisher sets the event publisher used after commit
func (s *ResultService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLabMetrics sets the business metrics collector
func (s *ResultService) SetLabMetrics(m *telemetry.LabMetrics) {
	s.metrics = m
}

// EnterSingleResult stores one value, classifies it against the patient's
// reference range and stamps the performer. The order status is not changed.
func (s *ResultService) EnterSingleResult(ctx context.Context, req EnterResultRequest) (*ResultResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lab_result", "enter")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrResultID, req.ResultID.String())

	var response ResultResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderID, err := repos.OrderRepo().FindOrderIDByResultID(ctx, req.ResultID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return lab.ErrResultNotFound.WithDetail("result_id", req.ResultID.String())
			}
			return err
		}
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		bounds, err := boundsForOrder(ctx, repos, order)
		if err != nil {
			return err
		}
		result, err := order.EnterResult(req.ResultID, req.Value, req.PerformedBy, s.now(), bounds)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToResultResponse(result)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &response, nil
}

// SaveOrderResults applies the lab station's snapshot of an order. Blank values
// keep the stored value. The order completes once every result is filled.
func (s *ResultService) SaveOrderResults(ctx context.Context, req SaveResultsRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lab_result", "save_batch")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, req.OrderID.String(),
		"result_count", len(req.Results),
	)

	var (
		order  *lab.Order
		events []shared.DomainEvent
	)
	var err error
	telemetry.ForOperation(telemetry.OperationSaveResults).Do(ctx, func(c context.Context) {
		err = s.txScope.Execute(c, func(repos TransactionalRepositories) error {
			var err error
			order, err = lockOrder(c, repos, req.OrderID)
			if err != nil {
				return err
			}
			bounds, err := boundsForOrder(c, repos, order)
			if err != nil {
				return err
			}
			if err := order.SaveResults(req.values(), req.PerformedBy, s.now(), bounds); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(c, order); err != nil {
				return err
			}
			events = order.PullDomainEvents()
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, events)
	if hasEventType(events, lab.EventTypeLabOrderCompleted) {
		s.metrics.RecordOrderCompleted(ctx)
		logger.WithLogger(ctx, s.logger).Info("lab order completed",
			zap.String("order_id", order.ID.String()),
		)
	}
	telemetry.SetAttribute(span, "order_status", order.Status.String())
	telemetry.SetOK(span)

	response := ToOrderResponse(order)
	return &response, nil
}

// SaveEditedResults corrects values on a completed order
func (s *ResultService) SaveEditedResults(ctx context.Context, req SaveEditedResultsRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lab_result", "edit")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, req.OrderID.String())

	var (
		order  *lab.Order
		events []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = lockOrder(ctx, repos, req.OrderID)
		if err != nil {
			return err
		}
		bounds, err := boundsForOrder(ctx, repos, order)
		if err != nil {
			return err
		}
		if err := order.SaveEditedResults(req.values(), req.EditedBy, req.EditReason, s.now(), bounds); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		events = order.PullDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, events)
	logger.WithLogger(ctx, s.logger).Info("lab results edited",
		zap.String("order_id", order.ID.String()),
		zap.String("edited_by", order.EditedBy),
		zap.Bool("reprint_required", order.ReprintRequired),
	)
	telemetry.SetOK(span)

	response := ToOrderResponse(order)
	return &response, nil
}
