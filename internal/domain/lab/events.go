package lab

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeLabOrder is the aggregate type for lab orders
const AggregateTypeLabOrder = "LabOrder"

// Event type constants
const (
	EventTypeLabOrderCreated   = "LabOrderCreated"
	EventTypeLabOrderCompleted = "LabOrderCompleted"
	EventTypeLabOrderDelivered = "LabOrderDelivered"
	EventTypeLabOrderCancelled = "LabOrderCancelled"
	EventTypeLabResultsEdited  = "LabResultsEdited"
)

// LabOrderCreatedEvent is published after an order and its stock deductions commit
type LabOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	PatientID   uuid.UUID       `json:"patient_id"`
	DoctorID    *uuid.UUID      `json:"doctor_id,omitempty"`
	TestCount   int             `json:"test_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
}

// NewLabOrderCreatedEvent creates a new LabOrderCreatedEvent
func NewLabOrderCreatedEvent(o *Order) *LabOrderCreatedEvent {
	return &LabOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLabOrderCreated, AggregateTypeLabOrder, o.ID),
		OrderID:         o.ID,
		PatientID:       o.PatientID,
		DoctorID:        o.DoctorID,
		TestCount:       len(o.Results),
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
	}
}

// LabOrderCompletedEvent is published when the last result of an order is filled
type LabOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	AbnormalCount int       `json:"abnormal_count"`
}

// NewLabOrderCompletedEvent creates a new LabOrderCompletedEvent
func NewLabOrderCompletedEvent(o *Order) *LabOrderCompletedEvent {
	abnormal := 0
	for _, r := range o.Results {
		if r.Abnormal {
			abnormal++
		}
	}
	return &LabOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLabOrderCompleted, AggregateTypeLabOrder, o.ID),
		OrderID:         o.ID,
		AbnormalCount:   abnormal,
	}
}

// LabOrderDeliveredEvent is published when the report is handed over
type LabOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewLabOrderDeliveredEvent creates a new LabOrderDeliveredEvent
func NewLabOrderDeliveredEvent(o *Order) *LabOrderDeliveredEvent {
	return &LabOrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLabOrderDelivered, AggregateTypeLabOrder, o.ID),
		OrderID:         o.ID,
	}
}

// LabResultsEditedEvent is published when a completed order is edited.
// ReprintRequired tells printing collaborators to regenerate the report.
type LabResultsEditedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID `json:"order_id"`
	EditedBy        string    `json:"edited_by"`
	Reason          string    `json:"reason,omitempty"`
	ReprintRequired bool      `json:"reprint_required"`
}

// NewLabResultsEditedEvent creates a new LabResultsEditedEvent
func NewLabResultsEditedEvent(o *Order) *LabResultsEditedEvent {
	return &LabResultsEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLabResultsEdited, AggregateTypeLabOrder, o.ID),
		OrderID:         o.ID,
		EditedBy:        o.EditedBy,
		Reason:          o.EditReason,
		ReprintRequired: o.ReprintRequired,
	}
}

// LabOrderCancelledEvent carries the audit trail of a deleted order
type LabOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RefundAmount   decimal.Decimal `json:"refund_amount"`
	TestIDs        []uuid.UUID     `json:"test_ids"`
	RestockedItems int             `json:"restocked_items"`
}

// NewLabOrderCancelledEvent creates a new LabOrderCancelledEvent
func NewLabOrderCancelledEvent(o *Order, refund decimal.Decimal, restockedItems int) *LabOrderCancelledEvent {
	return &LabOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLabOrderCancelled, AggregateTypeLabOrder, o.ID),
		OrderID:         o.ID,
		PatientID:       o.PatientID,
		TotalAmount:     o.TotalAmount,
		RefundAmount:    refund,
		TestIDs:         o.TestIDs(),
		RestockedItems:  restockedItems,
	}
}
