package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/shopping"
)

// MealPlanService defines the planning use cases
type MealPlanService interface {
	// Generate draws a transient calendar; nothing is persisted
	Generate(ctx context.Context, cmd GenerateMealsCommand) (mealplan.Calendar, error)

	// Save persists every non-empty cell of a calendar
	Save(ctx context.Context, cmd SavePlanCommand) (int, error)

	// Delete removes one entry; deleting a missing entry succeeds
	Delete(ctx context.Context, cmd DeleteEntryCommand) error

	// Query returns the persisted calendar for an explicit range
	Query(ctx context.Context, userID string, start, end mealplan.Date) (mealplan.Calendar, error)

	// RollingWindow returns the persisted calendar of the default window
	// around today
	RollingWindow(ctx context.Context, userID string, weekStartsOn time.Weekday) (*PlanWindowDTO, error)
}

// ShoppingService builds shopping lists from persisted plans
type ShoppingService interface {
	ShoppingList(ctx context.Context, userID string, start, end mealplan.Date) ([]shopping.ShoppingListItem, error)
}

// GenerateMealsCommand contains the inputs of one generation run
type GenerateMealsCommand struct {
	UserID  string
	Start   mealplan.Date
	End     mealplan.Date
	Targets mealplan.SlotTargets
}

// SavePlanCommand persists a reviewed calendar
type SavePlanCommand struct {
	UserID   string
	Calendar mealplan.Calendar
}

// DeleteEntryCommand identifies the entry to delete
type DeleteEntryCommand struct {
	UserID   string
	Date     mealplan.Date
	Slot     mealplan.Slot
	RecipeID uuid.UUID
}

// PlanWindowDTO is a persisted calendar with the bounds it covers
type PlanWindowDTO struct {
	Start    mealplan.Date     `json:"start"`
	End      mealplan.Date     `json:"end"`
	Calendar mealplan.Calendar `json:"calendar"`
}
