package lab

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists lab orders together with their result rows
type OrderRepository interface {
	// FindByID loads an order with its results ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order with its results holding a row lock on
	// the order for the rest of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindOrderIDByResultID resolves the owning order of a result row
	FindOrderIDByResultID(ctx context.Context, resultID uuid.UUID) (uuid.UUID, error)

	// Create inserts a new order and all of its results
	Create(ctx context.Context, order *Order) error

	// Save updates the order row and every result row
	Save(ctx context.Context, order *Order) error

	// Delete removes the order and its results
	Delete(ctx context.Context, id uuid.UUID) error
}
