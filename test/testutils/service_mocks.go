package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/shopping"
	"github.com/weeklydish/planner/internal/ports/inbound"
)

// MockRecipeService provides a mock implementation of inbound.RecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, cmd)
	if dto := args.Get(0); dto != nil {
		return dto.(*inbound.RecipeDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context) ([]inbound.RecipeSummaryDTO, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]inbound.RecipeSummaryDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, recipeID)
	if dto := args.Get(0); dto != nil {
		return dto.(*inbound.RecipeDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMealPlanService provides a mock implementation of inbound.MealPlanService
type MockMealPlanService struct {
	mock.Mock
}

func (m *MockMealPlanService) Generate(ctx context.Context, cmd inbound.GenerateMealsCommand) (mealplan.Calendar, error) {
	args := m.Called(ctx, cmd)
	if cal := args.Get(0); cal != nil {
		return cal.(mealplan.Calendar), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealPlanService) Save(ctx context.Context, cmd inbound.SavePlanCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func (m *MockMealPlanService) Delete(ctx context.Context, cmd inbound.DeleteEntryCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func (m *MockMealPlanService) Query(ctx context.Context, userID string, start, end mealplan.Date) (mealplan.Calendar, error) {
	args := m.Called(ctx, userID, start, end)
	if cal := args.Get(0); cal != nil {
		return cal.(mealplan.Calendar), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealPlanService) RollingWindow(ctx context.Context, userID string, weekStartsOn time.Weekday) (*inbound.PlanWindowDTO, error) {
	args := m.Called(ctx, userID, weekStartsOn)
	if w := args.Get(0); w != nil {
		return w.(*inbound.PlanWindowDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockShoppingService provides a mock implementation of inbound.ShoppingService
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) ShoppingList(ctx context.Context, userID string, start, end mealplan.Date) ([]shopping.ShoppingListItem, error) {
	args := m.Called(ctx, userID, start, end)
	if items := args.Get(0); items != nil {
		return items.([]shopping.ShoppingListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ inbound.RecipeService   = (*MockRecipeService)(nil)
	_ inbound.MealPlanService = (*MockMealPlanService)(nil)
	_ inbound.ShoppingService = (*MockShoppingService)(nil)
)
