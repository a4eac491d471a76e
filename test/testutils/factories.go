// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

var (
	units      = []string{"g", "ml", "個", "本", "枚", "大さじ", "小さじ"}
	freeTexts  = []string{"少々", "適量", "ひとつまみ", "a pinch", "to taste"}
	categories = []recipe.Category{recipe.CategoryJapanese, recipe.CategoryWestern, recipe.CategoryChinese, recipe.CategoryOther}
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe creates a valid recipe of the given role with a few ingredient
// lines of every quantity kind and some steps
func (f *RecipeFactory) Recipe(role recipe.CourseRole) *recipe.Recipe {
	r, err := recipe.NewRecipe(f.faker.Sentence(3), role, categories[f.faker.Number(0, len(categories)-1)])
	if err != nil {
		panic(err)
	}

	for i := 0; i < f.faker.Number(2, 5); i++ {
		_ = r.AddIngredient(recipe.IngredientLine{
			Name:     f.faker.Vegetable(),
			Quantity: f.Quantity(),
		})
	}
	for i := 0; i < f.faker.Number(1, 4); i++ {
		_ = r.AddStep(f.faker.Sentence(6))
	}
	r.Events()

	return r
}

// Quantity returns a random quantity, mostly structured
func (f *RecipeFactory) Quantity() recipe.Quantity {
	switch n := f.faker.Number(0, 9); {
	case n < 7:
		return recipe.Structured(float64(f.faker.Number(1, 500)), units[f.faker.Number(0, len(units)-1)])
	case n < 9:
		return recipe.FreeText(freeTexts[f.faker.Number(0, len(freeTexts)-1)])
	default:
		return recipe.Unknown()
	}
}

// Catalog creates mains followed by sides
func (f *RecipeFactory) Catalog(mains, sides int) []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, mains+sides)
	for i := 0; i < mains; i++ {
		out = append(out, f.Recipe(recipe.CourseRoleMain))
	}
	for i := 0; i < sides; i++ {
		out = append(out, f.Recipe(recipe.CourseRoleSide))
	}
	return out
}

// RecipeWithLines builds a recipe with exactly the given ingredient lines
func RecipeWithLines(title string, role recipe.CourseRole, lines ...recipe.IngredientLine) *recipe.Recipe {
	now := time.Now().UTC()
	return recipe.Restore(uuid.New(), title, role, recipe.CategoryOther, lines, nil, now, now)
}

// Entry builds a plan entry for a recipe
func Entry(userID string, date mealplan.Date, slot mealplan.Slot, r *recipe.Recipe) mealplan.PlanEntry {
	return mealplan.PlanEntry{
		UserID:   userID,
		Date:     date,
		Slot:     slot,
		RecipeID: r.ID(),
	}
}
