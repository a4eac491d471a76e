package recipe_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apprecipe "github.com/weeklydish/planner/internal/application/recipe"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/memory"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/pkg/errors"
	"github.com/weeklydish/planner/test/testutils"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

type RecipeServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *testutils.MockRecipeRepository
	cache   *memory.CacheRepository
	service *apprecipe.RecipeService
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(testutils.MockRecipeRepository)
	suite.cache = memory.NewCacheRepository()
	suite.service = apprecipe.NewRecipeService(suite.repo, suite.cache, 0, zap.NewNop())
}

func (suite *RecipeServiceTestSuite) TearDownTest() {
	suite.cache.Close()
	suite.repo.AssertExpectations(suite.T())
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_Success() {
	suite.repo.On("Create", mock.Anything, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	dto, err := suite.service.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
		UserID:     "user-1",
		Title:      "  親子丼 ",
		CourseRole: recipe.CourseRoleMain,
		Category:   recipe.CategoryJapanese,
		Ingredients: []inbound.CreateIngredientCommand{
			{Name: "鶏肉", Amount: ptr(200.0), Unit: ptr("g")},
			{Name: "塩", AmountText: ptr("少々")},
			{Name: "三つ葉"},
		},
		Steps: []string{"煮る", "卵でとじる"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "親子丼", dto.Title)
	require.Len(suite.T(), dto.Ingredients, 3)
	assert.Equal(suite.T(), 200.0, *dto.Ingredients[0].Amount)
	assert.Equal(suite.T(), "g", *dto.Ingredients[0].Unit)
	assert.Nil(suite.T(), dto.Ingredients[0].AmountText)
	assert.Equal(suite.T(), "少々", *dto.Ingredients[1].AmountText)
	assert.Nil(suite.T(), dto.Ingredients[2].Amount)
	assert.Nil(suite.T(), dto.Ingredients[2].AmountText)
	require.Len(suite.T(), dto.Steps, 2)
	assert.Equal(suite.T(), 2, dto.Steps[1].StepNumber)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_Validation() {
	tests := []struct {
		name string
		cmd  inbound.CreateRecipeCommand
	}{
		{"blank title", inbound.CreateRecipeCommand{UserID: "u", Title: "  ", CourseRole: recipe.CourseRoleMain}},
		{"bad role", inbound.CreateRecipeCommand{UserID: "u", Title: "x", CourseRole: "dessert"}},
		{"bad category", inbound.CreateRecipeCommand{UserID: "u", Title: "x", CourseRole: recipe.CourseRoleSide, Category: "thai"}},
		{"nameless ingredient", inbound.CreateRecipeCommand{UserID: "u", Title: "x", CourseRole: recipe.CourseRoleSide,
			Ingredients: []inbound.CreateIngredientCommand{{Name: " "}}}},
		{"negative amount", inbound.CreateRecipeCommand{UserID: "u", Title: "x", CourseRole: recipe.CourseRoleSide,
			Ingredients: []inbound.CreateIngredientCommand{{Name: "salt", Amount: ptr(-1.0)}}}},
		{"empty step", inbound.CreateRecipeCommand{UserID: "u", Title: "x", CourseRole: recipe.CourseRoleSide, Steps: []string{""}}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateRecipe(suite.ctx, tt.cmd)
			assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed), "got %v", err)
		})
	}
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_RequiresUser() {
	_, err := suite.service.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{Title: "x", CourseRole: recipe.CourseRoleMain})
	assert.True(suite.T(), errors.Is(err, errors.CodeUnauthorized))
}

func (suite *RecipeServiceTestSuite) TestListRecipes_IsCachedUntilCreate() {
	catalog := testutils.NewRecipeFactory(7).Catalog(2, 1)
	suite.repo.On("List", mock.Anything).Return(catalog, nil).Twice()
	suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := suite.service.ListRecipes(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), first, 3)

	second, err := suite.service.ListRecipes(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), first, second)

	_, err = suite.service.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
		UserID: "u", Title: "new", CourseRole: recipe.CourseRoleSide,
	})
	require.NoError(suite.T(), err)

	_, err = suite.service.ListRecipes(suite.ctx)
	require.NoError(suite.T(), err)
}

func (suite *RecipeServiceTestSuite) TestGetRecipe() {
	r := testutils.NewRecipeFactory(3).Recipe(recipe.CourseRoleMain)

	suite.Run("Found", func() {
		suite.repo.On("FindByID", mock.Anything, r.ID()).Return(r, nil).Once()

		dto, err := suite.service.GetRecipe(suite.ctx, r.ID())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), r.Title(), dto.Title)
		assert.Len(suite.T(), dto.Ingredients, len(r.Ingredients()))

		// served from cache
		again, err := suite.service.GetRecipe(suite.ctx, r.ID())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), dto.ID, again.ID)
	})

	suite.Run("NotFound", func() {
		id := uuid.New()
		suite.repo.On("FindByID", mock.Anything, id).Return(nil, recipe.ErrRecipeNotFound).Once()

		_, err := suite.service.GetRecipe(suite.ctx, id)
		assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
	})

	suite.Run("StoreFailure", func() {
		id := uuid.New()
		suite.repo.On("FindByID", mock.Anything, id).Return(nil, stderrors.New("locked")).Once()

		_, err := suite.service.GetRecipe(suite.ctx, id)
		assert.True(suite.T(), errors.Is(err, errors.CodeDatabaseError))
	})
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
