package dto

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/application/laborder"
	"github.com/shopspring/decimal"
)

// CreateLabOrderRequest is the body of POST /lab/orders
type CreateLabOrderRequest struct {
	PatientID string          `json:"patient_id" binding:"required,uuid"`
	DoctorID  string          `json:"doctor_id" binding:"omitempty,uuid"`
	TestIDs   []string        `json:"test_ids" binding:"omitempty,max=200,dive,uuid"`
	PanelIDs  []string        `json:"panel_ids" binding:"omitempty,max=50,dive,uuid"`
	Discount  decimal.Decimal `json:"discount"`
	CashPaid  decimal.Decimal `json:"cash_paid"`
}

// ToCommand converts the validated request
func (r CreateLabOrderRequest) ToCommand() laborder.CreateOrderRequest {
	cmd := laborder.CreateOrderRequest{
		PatientID: uuid.MustParse(r.PatientID),
		TestIDs:   parseUUIDs(r.TestIDs),
		PanelIDs:  parseUUIDs(r.PanelIDs),
		Discount:  r.Discount,
		CashPaid:  r.CashPaid,
	}
	if r.DoctorID != "" {
		id := uuid.MustParse(r.DoctorID)
		cmd.DoctorID = &id
	}
	return cmd
}

// EnterResultRequest is the body of PATCH /lab/results/:id
type EnterResultRequest struct {
	Value       string `json:"value" binding:"max=500"`
	PerformedBy string `json:"performed_by" binding:"omitempty,max=100"`
}

// ResultValueRequest is one submitted value
type ResultValueRequest struct {
	ResultID string `json:"result_id" binding:"required,uuid"`
	Value    string `json:"value" binding:"max=500"`
}

// SaveResultsRequest is the body of PUT /lab/orders/:id/results
type SaveResultsRequest struct {
	Results     []ResultValueRequest `json:"results" binding:"required,min=1,dive"`
	PerformedBy string               `json:"performed_by" binding:"omitempty,max=100"`
}

// ToCommand converts the validated request
func (r SaveResultsRequest) ToCommand(orderID uuid.UUID, performedBy string) laborder.SaveResultsRequest {
	return laborder.SaveResultsRequest{
		OrderID:     orderID,
		Results:     toResultValues(r.Results),
		PerformedBy: performedBy,
	}
}

// EditResultsRequest is the body of PUT /lab/orders/:id/results/edit
type EditResultsRequest struct {
	Results    []ResultValueRequest `json:"results" binding:"required,min=1,dive"`
	EditedBy   string               `json:"edited_by" binding:"omitempty,max=100"`
	EditReason string               `json:"edit_reason" binding:"max=500"`
}

// ToCommand converts the validated request
func (r EditResultsRequest) ToCommand(orderID uuid.UUID, editedBy string) laborder.SaveEditedResultsRequest {
	return laborder.SaveEditedResultsRequest{
		OrderID:    orderID,
		Results:    toResultValues(r.Results),
		EditedBy:   editedBy,
		EditReason: r.EditReason,
	}
}

// CancelOrderRequest is the body of POST /lab/orders/:id/cancel
type CancelOrderRequest struct {
	ApprovalCredential string `json:"approval_credential" binding:"required"`
}

// CancellableResponse answers GET /lab/orders/:id/cancellable
type CancellableResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Cancellable bool      `json:"cancellable"`
}

func toResultValues(in []ResultValueRequest) []laborder.ResultValue {
	out := make([]laborder.ResultValue, 0, len(in))
	for _, v := range in {
		out = append(out, laborder.ResultValue{ResultID: uuid.MustParse(v.ResultID), Value: v.Value})
	}
	return out
}

// parseUUIDs expects ids already validated by the uuid binding tag
func parseUUIDs(ids []string) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, uuid.MustParse(id))
	}
	return out
}
