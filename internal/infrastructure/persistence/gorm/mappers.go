// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"sort"

	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:         r.ID(),
		Title:      r.Title(),
		CourseRole: string(r.CourseRole()),
		Category:   string(r.Category()),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}

	for i, line := range r.Ingredients() {
		ingredient := IngredientModel{
			RecipeID: r.ID(),
			Position: i,
			Name:     line.Name,
		}
		ingredient.Amount, ingredient.Unit, ingredient.AmountText = quantityToColumns(line.Quantity)
		model.Ingredients = append(model.Ingredients, ingredient)
	}

	for _, step := range r.Steps() {
		model.Steps = append(model.Steps, StepModel{
			RecipeID:    r.ID(),
			StepNumber:  step.Number,
			Description: step.Description,
		})
	}

	return model
}

// ModelToRecipe converts a GORM model to a domain recipe. Ingredients keep
// their stored position and steps are ordered by step number.
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	ingredients := append([]IngredientModel(nil), model.Ingredients...)
	sort.SliceStable(ingredients, func(i, j int) bool {
		return ingredients[i].Position < ingredients[j].Position
	})

	lines := make([]recipe.IngredientLine, 0, len(ingredients))
	for _, ing := range ingredients {
		lines = append(lines, recipe.IngredientLine{
			Name:     ing.Name,
			Quantity: recipe.NewQuantity(ing.Amount, ing.Unit, ing.AmountText),
		})
	}

	stepModels := append([]StepModel(nil), model.Steps...)
	sort.SliceStable(stepModels, func(i, j int) bool {
		return stepModels[i].StepNumber < stepModels[j].StepNumber
	})

	steps := make([]recipe.Step, 0, len(stepModels))
	for _, s := range stepModels {
		steps = append(steps, recipe.Step{Number: s.StepNumber, Description: s.Description})
	}

	return recipe.Restore(
		model.ID,
		model.Title,
		recipe.CourseRole(model.CourseRole),
		recipe.Category(model.Category),
		lines,
		steps,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// EntryToModel converts a plan entry to a GORM model
func EntryToModel(e mealplan.PlanEntry) *MealEntryModel {
	return &MealEntryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      string(e.Date),
		Slot:      string(e.Slot),
		RecipeID:  e.RecipeID,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

// ModelToEntry converts a GORM model to a plan entry, attaching the recipe
// reference when it was preloaded
func ModelToEntry(model *MealEntryModel) mealplan.PlanEntry {
	entry := mealplan.PlanEntry{
		ID:        model.ID,
		UserID:    model.UserID,
		Date:      mealplan.Date(model.Date),
		Slot:      mealplan.Slot(model.Slot),
		RecipeID:  model.RecipeID,
		Note:      model.Note,
		CreatedAt: model.CreatedAt,
	}

	if model.Recipe != nil {
		entry.Recipe = &mealplan.RecipeRef{
			ID:         model.Recipe.ID,
			Title:      model.Recipe.Title,
			CourseRole: recipe.CourseRole(model.Recipe.CourseRole),
			Category:   recipe.Category(model.Recipe.Category),
			Note:       model.Note,
		}
	}

	return entry
}

func quantityToColumns(q recipe.Quantity) (amount *float64, unit, text *string) {
	switch q.Kind() {
	case recipe.QuantityStructured:
		a := q.Amount()
		amount = &a
		if u := q.Unit(); u != "" {
			unit = &u
		}
	case recipe.QuantityFreeText:
		t := q.Text()
		text = &t
	}
	return amount, unit, text
}
