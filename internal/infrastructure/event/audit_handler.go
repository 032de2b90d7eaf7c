package event

import (
	"context"

	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderAuditHandler writes one structured log line per order lifecycle
// event. Cancelled orders are hard-deleted, so this line is their only trace.
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates an audit handler
func NewOrderAuditHandler(log *zap.Logger) *OrderAuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderAuditHandler{logger: log.Named("audit")}
}

// EventTypes returns the order lifecycle event types
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{
		lab.EventTypeLabOrderCreated,
		lab.EventTypeLabOrderCompleted,
		lab.EventTypeLabOrderDelivered,
		lab.EventTypeLabResultsEdited,
		lab.EventTypeLabOrderCancelled,
	}
}

// Handle logs the event payload
func (h *OrderAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("order_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *lab.LabOrderCreatedEvent:
		fields = append(fields,
			zap.String("patient_id", e.PatientID.String()),
			zap.Int("test_count", e.TestCount),
			zap.String("total_amount", e.TotalAmount.String()),
			zap.String("paid_amount", e.PaidAmount.String()),
		)
	case *lab.LabOrderCompletedEvent:
		fields = append(fields, zap.Int("abnormal_count", e.AbnormalCount))
	case *lab.LabResultsEditedEvent:
		fields = append(fields,
			zap.String("edited_by", e.EditedBy),
			zap.String("reason", e.Reason),
			zap.Bool("reprint_required", e.ReprintRequired),
		)
	case *lab.LabOrderCancelledEvent:
		testIDs := make([]string, len(e.TestIDs))
		for i, id := range e.TestIDs {
			testIDs[i] = id.String()
		}
		fields = append(fields,
			zap.String("patient_id", e.PatientID.String()),
			zap.String("total_amount", e.TotalAmount.String()),
			zap.String("refund_amount", e.RefundAmount.String()),
			zap.Strings("test_ids", testIDs),
			zap.Int("restocked_items", e.RestockedItems),
		)
	}

	logger.WithLogger(ctx, h.logger).Info("lab order event", fields...)
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
