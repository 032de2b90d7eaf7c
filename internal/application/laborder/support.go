package laborder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CredentialVerifier checks the cancellation approval credential
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, credential string) error
}

// boundsForOrder resolves patient-scoped bounds for every test on the order
func boundsForOrder(ctx context.Context, repos TransactionalRepositories, order *lab.Order) (lab.BoundsLookup, error) {
	patient, err := repos.PatientRepo().FindByID(ctx, order.PatientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, partner.ErrPatientNotFound.WithDetail("patient_id", order.PatientID.String())
		}
		return nil, err
	}
	tests, err := repos.TestRepo().FindByIDs(ctx, order.TestIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.TestDefinition, len(tests))
	for i := range tests {
		byID[tests[i].ID] = &tests[i]
	}
	age := patient.AgeAt(order.CreatedAt)
	return func(testID uuid.UUID) catalog.Bounds {
		t, ok := byID[testID]
		if !ok {
			return catalog.Bounds{}
		}
		return t.BoundsFor(patient.Gender, age)
	}, nil
}

// lockOrder loads an order for update, translating not-found
func lockOrder(ctx context.Context, repos TransactionalRepositories, orderID uuid.UUID) (*lab.Order, error) {
	order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, lab.ErrOrderNotFound.WithDetail("order_id", orderID.String())
		}
		return nil, err
	}
	return order, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// publishEvents delivers events after the owning transaction committed.
// Delivery failures are logged; the business operation already succeeded.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func hasEventType(events []shared.DomainEvent, eventType string) bool {
	for _, e := range events {
		if e.EventType() == eventType {
			return true
		}
	}
	return false
}
