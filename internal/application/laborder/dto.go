package laborder

import (
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest selects the tests and panels for a new order
type CreateOrderRequest struct {
	PatientID uuid.UUID
	DoctorID  *uuid.UUID
	TestIDs   []uuid.UUID
	PanelIDs  []uuid.UUID
	Discount  decimal.Decimal
	CashPaid  decimal.Decimal
}

// EnterResultRequest sets one result value
type EnterResultRequest struct {
	ResultID    uuid.UUID
	Value       string
	PerformedBy string
}

// ResultValue is one submitted value of an order snapshot
type ResultValue struct {
	ResultID uuid.UUID
	Value    string
}

// SaveResultsRequest is the order snapshot submitted by the lab station
type SaveResultsRequest struct {
	OrderID     uuid.UUID
	Results     []ResultValue
	PerformedBy string
}

// SaveEditedResultsRequest edits a completed order
type SaveEditedResultsRequest struct {
	OrderID    uuid.UUID
	Results    []ResultValue
	EditedBy   string
	EditReason string
}

// CancelOrderRequest carries the approval credential for a cancellation
type CancelOrderRequest struct {
	OrderID            uuid.UUID
	ApprovalCredential string
}

// CancellationResult reports what a cancellation did
type CancellationResult struct {
	OrderID      uuid.UUID       `json:"order_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

func (r SaveResultsRequest) values() map[uuid.UUID]string {
	return toValueMap(r.Results)
}

func (r SaveEditedResultsRequest) values() map[uuid.UUID]string {
	return toValueMap(r.Results)
}

func toValueMap(results []ResultValue) map[uuid.UUID]string {
	m := make(map[uuid.UUID]string, len(results))
	for _, v := range results {
		m[v.ResultID] = v.Value
	}
	return m
}

// ResultResponse is a result row as returned to callers
type ResultResponse struct {
	ID          uuid.UUID  `json:"id"`
	TestID      uuid.UUID  `json:"test_id"`
	TestName    string     `json:"test_name"`
	Value       string     `json:"value"`
	Abnormal    bool       `json:"abnormal"`
	Remarks     string     `json:"remarks"`
	PerformedBy string     `json:"performed_by,omitempty"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
	Status      string     `json:"status"`
}

// OrderResponse is an order with its results as returned to callers
type OrderResponse struct {
	ID              uuid.UUID        `json:"id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	DoctorID        *uuid.UUID       `json:"doctor_id,omitempty"`
	Status          string           `json:"status"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	PaidAmount      decimal.Decimal  `json:"paid_amount"`
	BalanceDue      decimal.Decimal  `json:"balance_due"`
	Delivered       bool             `json:"delivered"`
	DeliveredAt     *time.Time       `json:"delivered_at,omitempty"`
	Edited          bool             `json:"edited"`
	EditedBy        string           `json:"edited_by,omitempty"`
	EditReason      string           `json:"edit_reason,omitempty"`
	EditedAt        *time.Time       `json:"edited_at,omitempty"`
	ReprintRequired bool             `json:"reprint_required"`
	ReprintCount    int              `json:"reprint_count"`
	LabStartedAt    *time.Time       `json:"lab_started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Results         []ResultResponse `json:"results"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// ToResultResponse converts a domain result
func ToResultResponse(r *lab.Result) ResultResponse {
	return ResultResponse{
		ID:          r.ID,
		TestID:      r.TestID,
		TestName:    r.TestName,
		Value:       r.Value,
		Abnormal:    r.Abnormal,
		Remarks:     r.Remarks,
		PerformedBy: r.PerformedBy,
		PerformedAt: r.PerformedAt,
		Status:      string(r.Status),
	}
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *lab.Order) OrderResponse {
	results := make([]ResultResponse, 0, len(o.Results))
	for i := range o.Results {
		results = append(results, ToResultResponse(&o.Results[i]))
	}
	return OrderResponse{
		ID:              o.ID,
		PatientID:       o.PatientID,
		DoctorID:        o.DoctorID,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		PaidAmount:      o.PaidAmount,
		BalanceDue:      o.BalanceDue,
		Delivered:       o.Delivered,
		DeliveredAt:     o.DeliveredAt,
		Edited:          o.Edited,
		EditedBy:        o.EditedBy,
		EditReason:      o.EditReason,
		EditedAt:        o.EditedAt,
		ReprintRequired: o.ReprintRequired,
		ReprintCount:    o.ReprintCount,
		LabStartedAt:    o.LabStartedAt,
		CompletedAt:     o.CompletedAt,
		Results:         results,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}
