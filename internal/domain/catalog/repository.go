package catalog

import (
	"context"

	"github.com/google/uuid"
)

// TestRepository is the read-only view of the test catalog
type TestRepository interface {
	// FindByID loads a test with its reference ranges
	FindByID(ctx context.Context, id uuid.UUID) (*TestDefinition, error)

	// FindByIDs loads tests with their reference ranges; unknown ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]TestDefinition, error)
}

// PanelRepository is the read-only view of panels
type PanelRepository interface {
	// FindByIDs loads panels with their member tests; unknown ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Panel, error)
}

// RecipeRepository reads consumption recipes
type RecipeRepository interface {
	// FindByTestIDs returns every recipe line for the given tests
	FindByTestIDs(ctx context.Context, testIDs []uuid.UUID) ([]ConsumptionRecipe, error)
}
