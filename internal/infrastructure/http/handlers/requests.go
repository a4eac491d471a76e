package handlers

import (
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/inbound"
)

// CreateIngredientRequest is one ingredient line. amount and unit form the
// structured quantity; amount_text is used when they are absent.
type CreateIngredientRequest struct {
	Name       string   `json:"name" validate:"notblank,max=200"`
	Amount     *float64 `json:"amount" validate:"omitempty,gte=0"`
	Unit       *string  `json:"unit" validate:"omitempty,max=32"`
	AmountText *string  `json:"amount_text" validate:"omitempty,max=100"`
}

// CreateStepRequest is one instruction; steps are numbered in order
type CreateStepRequest struct {
	Description string `json:"description" validate:"notblank,max=2000"`
}

// CreateRecipeRequest is the body of POST /recipes
type CreateRecipeRequest struct {
	Title       string                    `json:"title" validate:"notblank,max=200"`
	CourseRole  string                    `json:"course_role" validate:"required,course_role"`
	Category    string                    `json:"category" validate:"omitempty,category"`
	Ingredients []CreateIngredientRequest `json:"ingredients" validate:"max=100,dive"`
	Steps       []CreateStepRequest       `json:"steps" validate:"max=100,dive"`
}

func (req CreateRecipeRequest) command(userID string) inbound.CreateRecipeCommand {
	cmd := inbound.CreateRecipeCommand{
		UserID:      userID,
		Title:       req.Title,
		CourseRole:  recipe.CourseRole(req.CourseRole),
		Category:    recipe.Category(req.Category),
		Ingredients: make([]inbound.CreateIngredientCommand, 0, len(req.Ingredients)),
		Steps:       make([]string, 0, len(req.Steps)),
	}
	for _, ing := range req.Ingredients {
		cmd.Ingredients = append(cmd.Ingredients, inbound.CreateIngredientCommand{
			Name:       ing.Name,
			Amount:     ing.Amount,
			Unit:       ing.Unit,
			AmountText: ing.AmountText,
		})
	}
	for _, s := range req.Steps {
		cmd.Steps = append(cmd.Steps, s.Description)
	}
	return cmd
}

// GenerateMealsRequest is the body of POST /meal-plans/generate. An omitted
// count falls back to the default target for that slot and role.
type GenerateMealsRequest struct {
	StartDate       string `json:"start_date" validate:"required,iso_date"`
	EndDate         string `json:"end_date" validate:"required,iso_date"`
	LunchMainCount  *int   `json:"lunch_main_count" validate:"omitempty,gte=0,lte=20"`
	LunchSideCount  *int   `json:"lunch_side_count" validate:"omitempty,gte=0,lte=20"`
	DinnerMainCount *int   `json:"dinner_main_count" validate:"omitempty,gte=0,lte=20"`
	DinnerSideCount *int   `json:"dinner_side_count" validate:"omitempty,gte=0,lte=20"`
}

func (req GenerateMealsRequest) command(userID string) inbound.GenerateMealsCommand {
	targets := mealplan.DefaultSlotTargets
	pick := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	pick(&targets.LunchMain, req.LunchMainCount)
	pick(&targets.LunchSide, req.LunchSideCount)
	pick(&targets.DinnerMain, req.DinnerMainCount)
	pick(&targets.DinnerSide, req.DinnerSideCount)

	return inbound.GenerateMealsCommand{
		UserID:  userID,
		Start:   mealplan.Date(req.StartDate),
		End:     mealplan.Date(req.EndDate),
		Targets: targets,
	}
}

// SavePlanRequest is the body of POST /meal-plans. Null cells are skipped.
type SavePlanRequest struct {
	Calendar mealplan.Calendar `json:"calendar" validate:"required"`
}

// DeleteEntryQuery identifies the entry removed by DELETE /meal-plans
type DeleteEntryQuery struct {
	Date     string `json:"date" validate:"required,iso_date"`
	Slot     string `json:"slot" validate:"required,slot"`
	RecipeID string `json:"recipe_id" validate:"required,uuid"`
}
