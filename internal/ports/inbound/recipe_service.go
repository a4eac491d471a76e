// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

// RecipeService defines the use cases of the recipe catalog
type RecipeService interface {
	// Commands
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)

	// Queries
	ListRecipes(ctx context.Context) ([]RecipeSummaryDTO, error)
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	UserID      string
	Title       string
	CourseRole  recipe.CourseRole
	Category    recipe.Category
	Ingredients []CreateIngredientCommand
	Steps       []string
}

// CreateIngredientCommand carries the raw, nullable quantity fields of one
// ingredient line
type CreateIngredientCommand struct {
	Name       string
	Amount     *float64
	Unit       *string
	AmountText *string
}

// RecipeSummaryDTO is a catalog listing row
type RecipeSummaryDTO struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	CourseRole recipe.CourseRole `json:"course_role"`
}

// RecipeDTO is a recipe with its ingredient lines and ordered steps
type RecipeDTO struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	CourseRole  recipe.CourseRole `json:"course_role"`
	Category    recipe.Category   `json:"category"`
	Ingredients []IngredientDTO   `json:"ingredients"`
	Steps       []StepDTO         `json:"steps"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IngredientDTO renders a Quantity as its nullable wire fields
type IngredientDTO struct {
	Name       string   `json:"name"`
	Amount     *float64 `json:"amount"`
	Unit       *string  `json:"unit"`
	AmountText *string  `json:"amount_text"`
}

// StepDTO is one numbered step
type StepDTO struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// ToRecipeDTO converts a domain recipe
func ToRecipeDTO(r *recipe.Recipe) *RecipeDTO {
	dto := &RecipeDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		CourseRole:  r.CourseRole(),
		Category:    r.Category(),
		Ingredients: make([]IngredientDTO, 0, len(r.Ingredients())),
		Steps:       make([]StepDTO, 0, len(r.Steps())),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}

	for _, line := range r.Ingredients() {
		ing := IngredientDTO{Name: line.Name}
		q := line.Quantity
		switch q.Kind() {
		case recipe.QuantityStructured:
			amount, unit := q.Amount(), q.Unit()
			ing.Amount, ing.Unit = &amount, &unit
		case recipe.QuantityFreeText:
			text := q.Text()
			ing.AmountText = &text
		}
		dto.Ingredients = append(dto.Ingredients, ing)
	}

	for _, s := range r.Steps() {
		dto.Steps = append(dto.Steps, StepDTO{StepNumber: s.Number, Description: s.Description})
	}

	return dto
}
