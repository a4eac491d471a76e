// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/outbound"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

// Create stores a recipe
func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// FindByID finds a recipe by ID
func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByIDs finds recipes by IDs
func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

// List returns the catalog
func (m *MockRecipeRepository) List(ctx context.Context) ([]*recipe.Recipe, error) {
	args := m.Called(ctx)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUsageHistory provides a mock implementation of UsageHistory
type MockUsageHistory struct {
	mock.Mock
}

// FindUsedRecipeIDs returns recently used recipe ids
func (m *MockUsageHistory) FindUsedRecipeIDs(ctx context.Context, userID string, since mealplan.Date) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, userID, since)
	if ids, ok := args.Get(0).(map[uuid.UUID]struct{}); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// Record appends an entry
func (m *MockUsageHistory) Record(ctx context.Context, entry mealplan.PlanEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPlanRepository provides a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

// Save inserts entries
func (m *MockPlanRepository) Save(ctx context.Context, entries []mealplan.PlanEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

// Delete removes one entry
func (m *MockPlanRepository) Delete(ctx context.Context, key mealplan.EntryKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// FindRange returns entries in a range
func (m *MockPlanRepository) FindRange(ctx context.Context, userID string, start, end mealplan.Date) ([]mealplan.PlanEntry, error) {
	args := m.Called(ctx, userID, start, end)
	if es, ok := args.Get(0).([]mealplan.PlanEntry); ok {
		return es, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPlannerMetrics records calls to PlannerMetrics
type MockPlannerMetrics struct {
	mock.Mock
}

func (m *MockPlannerMetrics) ObserveGeneration(dates, requested, drawn int, duration time.Duration) {
	m.Called(dates, requested, drawn, duration)
}

func (m *MockPlannerMetrics) RecordShortfall(slot mealplan.Slot, role recipe.CourseRole) {
	m.Called(slot, role)
}

func (m *MockPlannerMetrics) RecordSavedEntries(n int) {
	m.Called(n)
}

func (m *MockPlannerMetrics) ObserveShoppingList(items int) {
	m.Called(items)
}

var (
	_ outbound.RecipeRepository = (*MockRecipeRepository)(nil)
	_ outbound.UsageHistory     = (*MockUsageHistory)(nil)
	_ outbound.PlanRepository   = (*MockPlanRepository)(nil)
	_ outbound.PlannerMetrics   = (*MockPlannerMetrics)(nil)
)
