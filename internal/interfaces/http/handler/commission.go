package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfinance "github.com/labcore/backend/internal/application/finance"
	"go.uber.org/zap"
)

// CommissionOperations is commission payout as used by the handler
type CommissionOperations interface {
	SettleCommission(ctx context.Context, commissionID uuid.UUID) (*appfinance.SettlementResult, error)
}

// CommissionHandler serves referral commission endpoints
type CommissionHandler struct {
	BaseHandler
	commissions CommissionOperations
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissions CommissionOperations, log *zap.Logger) *CommissionHandler {
	return &CommissionHandler{BaseHandler: newBaseHandler(log), commissions: commissions}
}

// RegisterRoutes mounts the handler under rg
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/lab/commissions/:id/settle", h.SettleCommission)
}

// SettleCommission godoc
// @Summary      Pay out a referral commission
// @Description  Marks the ledger row paid and records the payout expense. A paid row blocks cancellation of its order.
// @Tags         finance
// @Produce      json
// @Param        id path string true "Commission ledger row ID"
// @Success      200 {object} dto.Response
// @Failure      404,409 {object} dto.Response
// @Router       /lab/commissions/{id}/settle [post]
func (h *CommissionHandler) SettleCommission(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.commissions.SettleCommission(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
