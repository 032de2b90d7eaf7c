package lab

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a lab order.
// Cancellation removes the order, so there is no cancelled status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Order is the lab order aggregate root. It owns its result rows.
type Order struct {
	shared.BaseAggregateRoot
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DoctorID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceDue     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	Delivered   bool `gorm:"not null;default:false"`
	DeliveredAt *time.Time

	Edited     bool   `gorm:"not null;default:false"`
	EditedBy   string `gorm:"type:varchar(100)"`
	EditReason string `gorm:"type:text"`
	EditedAt   *time.Time

	ReprintRequired bool `gorm:"not null;default:false"`
	ReprintCount    int  `gorm:"not null;default:0"`

	LabStartedAt *time.Time
	CompletedAt  *time.Time

	Results []Result `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "lab_orders"
}

// NewOrder builds a pending order with one empty result per test in the selection
func NewOrder(patientID uuid.UUID, doctorID *uuid.UUID, selection Selection, discount, paid decimal.Decimal) (*Order, error) {
	if patientID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithDetail("field", "patient_id")
	}
	tests := selection.Union()
	if len(tests) == 0 {
		return nil, ErrNoTestsSelected
	}
	if discount.IsNegative() || paid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount and paid amount cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PatientID:         patientID,
		DoctorID:          doctorID,
		Status:            OrderStatusPending,
		TotalAmount:       selection.Total(),
		DiscountAmount:    discount,
		PaidAmount:        paid,
	}
	for i, t := range tests {
		o.Results = append(o.Results, newResult(o.ID, t.ID, t.Name, i, o.CreatedAt))
	}
	o.RecalculateBalance()
	o.Record(NewLabOrderCreatedEvent(o))
	return o, nil
}

// RecalculateBalance keeps BalanceDue = TotalAmount - DiscountAmount - PaidAmount
func (o *Order) RecalculateBalance() {
	o.BalanceDue = o.TotalAmount.Sub(o.DiscountAmount).Sub(o.PaidAmount)
}

// TestIDs returns the test ids of the order's results
func (o *Order) TestIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Results))
	for _, r := range o.Results {
		ids = append(ids, r.TestID)
	}
	return ids
}

// Result returns the result row with the given id
func (o *Order) Result(resultID uuid.UUID) (*Result, error) {
	for i := range o.Results {
		if o.Results[i].ID == resultID {
			return &o.Results[i], nil
		}
	}
	return nil, ErrResultNotFound
}

// HasLabActivity reports whether lab work has started on the order
func (o *Order) HasLabActivity() bool {
	if o.LabStartedAt != nil {
		return true
	}
	for i := range o.Results {
		if o.Results[i].HasActivity() {
			return true
		}
	}
	return false
}

// CanCancel reports whether the order is still cancellable
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending && !o.HasLabActivity()
}

// EnsureCancellable returns ORDER_NOT_CANCELLABLE when CanCancel is false
func (o *Order) EnsureCancellable() error {
	if o.CanCancel() {
		return nil
	}
	return ErrOrderNotCancellable.
		WithDetail("order_id", o.ID.String()).
		WithDetail("status", o.Status.String())
}

// MarkUnderLabReview soft-locks a pending order while lab staff look at it.
// It reports whether the status changed.
func (o *Order) MarkUnderLabReview() bool {
	if o.Status != OrderStatusPending {
		return false
	}
	o.Status = OrderStatusInProgress
	o.Touch()
	return true
}

// ReleaseLabReview returns a reviewed order to pending if no work was done.
// It reports whether the status changed.
func (o *Order) ReleaseLabReview() bool {
	if o.Status != OrderStatusInProgress || o.HasLabActivity() {
		return false
	}
	o.Status = OrderStatusPending
	o.Touch()
	return true
}

// EnterResult sets a single result value. Order status is left alone.
func (o *Order) EnterResult(resultID uuid.UUID, value, performer string, at time.Time, bounds BoundsLookup) (*Result, error) {
	if o.Delivered {
		return nil, ErrOrderAlreadyDelivered.WithDetail("order_id", o.ID.String())
	}
	if strings.TrimSpace(value) == "" {
		return nil, shared.ErrInvalidInput.WithDetail("field", "value")
	}
	r, err := o.Result(resultID)
	if err != nil {
		return nil, err
	}
	r.enter(value, performer, at, bounds)
	o.markLabStarted(at)
	o.Touch()
	return r, nil
}

// SaveResults applies a batch of submitted values keyed by result id. Blank
// values keep whatever is stored. Afterwards the order is COMPLETED when every
// result is filled and IN_PROGRESS otherwise.
func (o *Order) SaveResults(values map[uuid.UUID]string, performer string, at time.Time, bounds BoundsLookup) error {
	if o.Delivered {
		return ErrOrderAlreadyDelivered.WithDetail("order_id", o.ID.String())
	}
	if err := o.applyValues(values, performer, at, bounds); err != nil {
		return err
	}
	o.recomputeStatus(at)
	return nil
}

// SaveEditedResults changes results of a completed order. Once delivered a
// reason is mandatory and the report must be reprinted.
func (o *Order) SaveEditedResults(values map[uuid.UUID]string, editor, reason string, at time.Time, bounds BoundsLookup) error {
	if o.Status != OrderStatusCompleted {
		return ErrOrderNotCompleted.WithDetail("status", o.Status.String())
	}
	reason = strings.TrimSpace(reason)
	if o.Delivered && reason == "" {
		return ErrEditReasonRequired
	}
	if err := o.applyValues(values, editor, at, bounds); err != nil {
		return err
	}

	o.Edited = true
	o.EditedBy = editor
	o.EditReason = reason
	o.EditedAt = &at
	if o.Delivered {
		o.ReprintRequired = true
	}
	o.recomputeStatus(at)
	o.Record(NewLabResultsEditedEvent(o))
	return nil
}

// MarkDelivered records that the report was handed to the patient
func (o *Order) MarkDelivered(at time.Time) error {
	if o.Status != OrderStatusCompleted {
		return ErrOrderNotCompleted.WithDetail("status", o.Status.String())
	}
	if o.Delivered {
		return nil
	}
	o.Delivered = true
	o.DeliveredAt = &at
	o.Touch()
	o.Record(NewLabOrderDeliveredEvent(o))
	return nil
}

// RecordReprint counts a printed copy and clears the reprint flag
func (o *Order) RecordReprint() error {
	if o.Status != OrderStatusCompleted {
		return ErrOrderNotCompleted.WithDetail("status", o.Status.String())
	}
	o.ReprintCount++
	o.ReprintRequired = false
	o.Touch()
	return nil
}

// MarkCancelled records the cancellation event before the order is deleted
func (o *Order) MarkCancelled(refund decimal.Decimal, restockedItems int) {
	o.Record(NewLabOrderCancelledEvent(o, refund, restockedItems))
}

func (o *Order) applyValues(values map[uuid.UUID]string, performer string, at time.Time, bounds BoundsLookup) error {
	for id := range values {
		if _, err := o.Result(id); err != nil {
			return ErrResultNotFound.WithDetail("result_id", id.String())
		}
	}
	for i := range o.Results {
		r := &o.Results[i]
		v, ok := values[r.ID]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		r.enter(v, performer, at, bounds)
		o.markLabStarted(at)
	}
	return nil
}

func (o *Order) recomputeStatus(at time.Time) {
	previous := o.Status
	if o.allFilled() {
		o.Status = OrderStatusCompleted
		if previous != OrderStatusCompleted {
			o.CompletedAt = &at
			o.Record(NewLabOrderCompletedEvent(o))
		}
	} else {
		o.Status = OrderStatusInProgress
		o.CompletedAt = nil
	}
	o.UpdatedAt = at
}

func (o *Order) allFilled() bool {
	for i := range o.Results {
		if !o.Results[i].IsFilled() {
			return false
		}
	}
	return len(o.Results) > 0
}

func (o *Order) markLabStarted(at time.Time) {
	if o.LabStartedAt == nil {
		o.LabStartedAt = &at
	}
}
