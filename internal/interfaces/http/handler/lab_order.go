package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/application/laborder"
	"github.com/labcore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// OrderOperations is the order lifecycle used by the handler
type OrderOperations interface {
	CreateOrder(ctx context.Context, req laborder.CreateOrderRequest) (*laborder.OrderResponse, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error)
	RecordReprint(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error)
}

// ResultOperations is result entry as used by the handler
type ResultOperations interface {
	EnterSingleResult(ctx context.Context, req laborder.EnterResultRequest) (*laborder.ResultResponse, error)
	SaveOrderResults(ctx context.Context, req laborder.SaveResultsRequest) (*laborder.OrderResponse, error)
	SaveEditedResults(ctx context.Context, req laborder.SaveEditedResultsRequest) (*laborder.OrderResponse, error)
}

// CancellationOperations is cancellation and lab review as used by the handler
type CancellationOperations interface {
	CanCancel(ctx context.Context, orderID uuid.UUID) (bool, error)
	MarkUnderLabReview(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error)
	ReleaseLabReview(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error)
	CancelOrder(ctx context.Context, req laborder.CancelOrderRequest) (*laborder.CancellationResult, error)
}

// LabOrderHandler serves the lab order endpoints
type LabOrderHandler struct {
	BaseHandler
	orders  OrderOperations
	results ResultOperations
	cancels CancellationOperations
}

// NewLabOrderHandler creates a new LabOrderHandler
func NewLabOrderHandler(orders OrderOperations, results ResultOperations, cancels CancellationOperations, log *zap.Logger) *LabOrderHandler {
	return &LabOrderHandler{
		BaseHandler: newBaseHandler(log),
		orders:      orders,
		results:     results,
		cancels:     cancels,
	}
}

// RegisterRoutes mounts the handler under rg
func (h *LabOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/lab/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("/:id", h.GetOrder)
	orders.PUT("/:id/results", h.SaveOrderResults)
	orders.PUT("/:id/results/edit", h.SaveEditedResults)
	orders.POST("/:id/deliver", h.MarkDelivered)
	orders.POST("/:id/reprint", h.RecordReprint)
	orders.POST("/:id/review", h.MarkUnderLabReview)
	orders.DELETE("/:id/review", h.ReleaseLabReview)
	orders.GET("/:id/cancellable", h.CanCancel)
	orders.POST("/:id/cancel", h.CancelOrder)

	rg.PATCH("/lab/results/:id", h.EnterSingleResult)
}

// CreateOrder godoc
// @Summary      Create a lab order
// @Description  Prices the selection, deducts consumables and books the referral commission in one transaction
// @Tags         lab
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateLabOrderRequest true "Order selection"
// @Success      201 {object} dto.Response
// @Failure      400,404,422 {object} dto.Response
// @Router       /lab/orders [post]
func (h *LabOrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateLabOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetOrder godoc
// @Summary      Get a lab order with its results
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /lab/orders/{id} [get]
func (h *LabOrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// EnterSingleResult godoc
// @Summary      Enter one result value
// @Description  Classifies the value against the patient's reference range. The order status is left unchanged.
// @Tags         lab
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body dto.EnterResultRequest true "Value"
// @Success      200 {object} dto.Response
// @Failure      400,404,409 {object} dto.Response
// @Router       /lab/results/{id} [patch]
func (h *LabOrderHandler) EnterSingleResult(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.EnterResultRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.results.EnterSingleResult(c.Request.Context(), laborder.EnterResultRequest{
		ResultID:    id,
		Value:       req.Value,
		PerformedBy: performer(c, req.PerformedBy),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SaveOrderResults godoc
// @Summary      Save the result sheet of an order
// @Description  Blank values are ignored. The order completes once every result has a value.
// @Tags         lab
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body dto.SaveResultsRequest true "Result values"
// @Success      200 {object} dto.Response
// @Failure      400,404,409 {object} dto.Response
// @Router       /lab/orders/{id}/results [put]
func (h *LabOrderHandler) SaveOrderResults(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SaveResultsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.results.SaveOrderResults(c.Request.Context(), req.ToCommand(id, performer(c, req.PerformedBy)))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// SaveEditedResults godoc
// @Summary      Edit the results of a completed order
// @Description  A reason is required once the report was delivered; delivered orders are flagged for reprint.
// @Tags         lab
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body dto.EditResultsRequest true "Edited values"
// @Success      200 {object} dto.Response
// @Failure      400,404,409 {object} dto.Response
// @Router       /lab/orders/{id}/results/edit [put]
func (h *LabOrderHandler) SaveEditedResults(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.EditResultsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.results.SaveEditedResults(c.Request.Context(), req.ToCommand(id, performer(c, req.EditedBy)))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkDelivered godoc
// @Summary      Mark the report of a completed order as delivered
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Failure      404,409 {object} dto.Response
// @Router       /lab/orders/{id}/deliver [post]
func (h *LabOrderHandler) MarkDelivered(c *gin.Context) {
	h.orderTransition(c, h.orders.MarkDelivered)
}

// RecordReprint godoc
// @Summary      Record a report reprint
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Failure      404,409 {object} dto.Response
// @Router       /lab/orders/{id}/reprint [post]
func (h *LabOrderHandler) RecordReprint(c *gin.Context) {
	h.orderTransition(c, h.orders.RecordReprint)
}

// MarkUnderLabReview godoc
// @Summary      Flag a pending order as under lab review
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Router       /lab/orders/{id}/review [post]
func (h *LabOrderHandler) MarkUnderLabReview(c *gin.Context) {
	h.orderTransition(c, h.cancels.MarkUnderLabReview)
}

// ReleaseLabReview godoc
// @Summary      Release the lab review flag when no lab work happened
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Router       /lab/orders/{id}/review [delete]
func (h *LabOrderHandler) ReleaseLabReview(c *gin.Context) {
	h.orderTransition(c, h.cancels.ReleaseLabReview)
}

// CanCancel godoc
// @Summary      Check whether an order can still be cancelled
// @Tags         lab
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Router       /lab/orders/{id}/cancellable [get]
func (h *LabOrderHandler) CanCancel(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	cancellable, err := h.cancels.CanCancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CancellableResponse{OrderID: id, Cancellable: cancellable})
}

// CancelOrder godoc
// @Summary      Cancel an order
// @Description  Requires the approval secret. Restocks consumables, drops the unpaid commission, refunds the cash paid and deletes the order.
// @Tags         lab
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body dto.CancelOrderRequest true "Approval"
// @Success      200 {object} dto.Response
// @Failure      403,404,409,500 {object} dto.Response
// @Router       /lab/orders/{id}/cancel [post]
func (h *LabOrderHandler) CancelOrder(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CancelOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.cancels.CancelOrder(c.Request.Context(), laborder.CancelOrderRequest{
		OrderID:            id,
		ApprovalCredential: req.ApprovalCredential,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *LabOrderHandler) orderTransition(c *gin.Context, fn func(context.Context, uuid.UUID) (*laborder.OrderResponse, error)) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
