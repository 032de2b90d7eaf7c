// Package finance pays out referring doctor commissions.
package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/finance"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCommissionNotFound is returned when the commission row does not exist
var ErrCommissionNotFound = shared.NewDomainError("COMMISSION_NOT_FOUND", "Commission row not found")

func init() {
	shared.RegisterErrorCategory(shared.CategoryNotFound, ErrCommissionNotFound.Code)
}

// TransactionScope runs commission work inside one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories a payout touches
type TransactionalRepositories interface {
	CommissionRepo() finance.CommissionRepository
	Payments() finance.PaymentRecorder
}

// SettlementResult is returned after a commission has been paid out
type SettlementResult struct {
	CommissionID uuid.UUID       `json:"commission_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	DoctorID     uuid.UUID       `json:"doctor_id"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	PaymentID    uuid.UUID       `json:"payment_id,omitempty"`
	PaidAt       time.Time       `json:"paid_at"`
}

// CommissionService settles commission ledger rows
type CommissionService struct {
	txScope TransactionScope
	metrics *telemetry.LabMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCommissionService creates a CommissionService
func NewCommissionService(txScope TransactionScope, log *zap.Logger) *CommissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommissionService{
		txScope: txScope,
		logger:  log,
		now:     time.Now,
	}
}

// SetLabMetrics sets the metrics recorder
func (s *CommissionService) SetLabMetrics(metrics *telemetry.LabMetrics) {
	s.metrics = metrics
}

// SettleCommission pays a commission row out in full and records the cash book entry.
// A zero commission is marked paid without a payment row.
func (s *CommissionService) SettleCommission(ctx context.Context, commissionID uuid.UUID) (*SettlementResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission", "SettleCommission")
	defer span.End()
	telemetry.SetAttributes(span, "commission.id", commissionID.String())

	var result *SettlementResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		row, err := repos.CommissionRepo().FindByIDForUpdate(ctx, commissionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrCommissionNotFound.WithDetail("commission_id", commissionID.String())
			}
			return err
		}

		paidAt := s.now()
		amount, err := row.Settle(paidAt)
		if err != nil {
			return err
		}
		if err := repos.CommissionRepo().Save(ctx, row); err != nil {
			return fmt.Errorf("save commission: %w", err)
		}

		result = &SettlementResult{
			CommissionID: row.ID,
			OrderID:      row.OrderID,
			DoctorID:     row.DoctorID,
			PaidAmount:   amount,
			PaidAt:       paidAt,
		}
		if !amount.IsPositive() {
			return nil
		}

		payment, err := finance.NewPayment(
			finance.PaymentTypeExpense,
			finance.PaymentCategoryCommission,
			fmt.Sprintf("Commission payout for lab order %s", row.OrderID),
			amount,
			finance.PaymentMethodCash,
		)
		if err != nil {
			return err
		}
		payment.PaidAt = paidAt
		if err := repos.Payments().Record(ctx, payment); err != nil {
			return fmt.Errorf("record commission payment: %w", err)
		}
		result.PaymentID = payment.ID
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithLogger(ctx, s.logger).Warn("commission settlement refused",
			zap.String("commission_id", commissionID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordCommissionSettled(ctx)
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, result.PaidAmount.String())
	telemetry.SetOK(span)
	logger.WithLogger(ctx, s.logger).Info("commission settled",
		zap.String("commission_id", result.CommissionID.String()),
		zap.String("order_id", result.OrderID.String()),
		zap.String("amount", result.PaidAmount.String()),
	)
	return result, nil
}
