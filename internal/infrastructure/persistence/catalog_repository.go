package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/labcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func orderedRanges(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GormTestRepository reads test definitions with their reference ranges
type GormTestRepository struct {
	db *gorm.DB
}

// NewGormTestRepository creates a new GormTestRepository
func NewGormTestRepository(db *gorm.DB) *GormTestRepository {
	return &GormTestRepository{db: db}
}

// FindByID loads a test with its reference ranges
func (r *GormTestRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TestDefinition, error) {
	var test catalog.TestDefinition
	err := r.db.WithContext(ctx).
		Preload("ReferenceRanges", orderedRanges).
		First(&test, "id = ?", id).Error
	if err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return &test, nil
}

// FindByIDs loads tests with their reference ranges; unknown ids are skipped
func (r *GormTestRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.TestDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tests []catalog.TestDefinition
	err := r.db.WithContext(ctx).
		Preload("ReferenceRanges", orderedRanges).
		Where("id IN ?", ids).
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

// GormPanelRepository reads panels with their member tests
type GormPanelRepository struct {
	db *gorm.DB
}

// NewGormPanelRepository creates a new GormPanelRepository
func NewGormPanelRepository(db *gorm.DB) *GormPanelRepository {
	return &GormPanelRepository{db: db}
}

// FindByIDs loads panels with their member tests; unknown ids are skipped
func (r *GormPanelRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Panel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var panels []catalog.Panel
	err := r.db.WithContext(ctx).
		Preload("Tests").
		Where("id IN ?", ids).
		Find(&panels).Error
	if err != nil {
		return nil, err
	}
	return panels, nil
}

// GormRecipeRepository reads consumption recipes
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByTestIDs returns every recipe line for the given tests
func (r *GormRecipeRepository) FindByTestIDs(ctx context.Context, testIDs []uuid.UUID) ([]catalog.ConsumptionRecipe, error) {
	if len(testIDs) == 0 {
		return nil, nil
	}
	var recipes []catalog.ConsumptionRecipe
	err := r.db.WithContext(ctx).
		Where("test_id IN ?", testIDs).
		Order("test_id ASC, inventory_item_id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

var (
	_ catalog.TestRepository   = (*GormTestRepository)(nil)
	_ catalog.PanelRepository  = (*GormPanelRepository)(nil)
	_ catalog.RecipeRepository = (*GormRecipeRepository)(nil)
)
