// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository is the recipe catalog store
type RecipeRepository interface {
	// Create stores a recipe with its ingredient lines and steps atomically
	Create(ctx context.Context, r *recipe.Recipe) error
	// FindByID loads one recipe with ingredients and steps, or
	// recipe.ErrRecipeNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	// FindByIDs loads recipes with their ingredient lines; unknown ids are
	// skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)
	// List returns every recipe without ingredients or steps, by title
	List(ctx context.Context) ([]*recipe.Recipe, error)
}

// UsageHistory answers which recipes were planned recently
type UsageHistory interface {
	// FindUsedRecipeIDs returns distinct recipe ids of the user's entries
	// dated on or after since
	FindUsedRecipeIDs(ctx context.Context, userID string, since mealplan.Date) (map[uuid.UUID]struct{}, error)
	// Record appends a single entry without de-duplication
	Record(ctx context.Context, entry mealplan.PlanEntry) error
}

// PlanRepository is the plan store
type PlanRepository interface {
	// Save inserts entries all-or-nothing and returns how many were written
	Save(ctx context.Context, entries []mealplan.PlanEntry) (int, error)
	// Delete removes at most one matching entry and reports whether one was
	// found
	Delete(ctx context.Context, key mealplan.EntryKey) (bool, error)
	// FindRange returns the user's entries dated within [start, end] with
	// their recipe references filled in
	FindRange(ctx context.Context, userID string, start, end mealplan.Date) ([]mealplan.PlanEntry, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PlannerMetrics receives business measurements from the application layer
type PlannerMetrics interface {
	ObserveGeneration(dates, requested, drawn int, duration time.Duration)
	RecordShortfall(slot mealplan.Slot, role recipe.CourseRole)
	RecordSavedEntries(n int)
	ObserveShoppingList(items int)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) ObserveGeneration(int, int, int, time.Duration)  {}
func (NopMetrics) RecordShortfall(mealplan.Slot, recipe.CourseRole) {}
func (NopMetrics) RecordSavedEntries(int)                           {}
func (NopMetrics) ObserveShoppingList(int)                          {}
