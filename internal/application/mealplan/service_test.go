package mealplan_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	appmealplan "github.com/weeklydish/planner/internal/application/mealplan"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/pkg/errors"
	"github.com/weeklydish/planner/test/testutils"
	"go.uber.org/zap"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	recipes *testutils.MockRecipeRepository
	history *testutils.MockUsageHistory
	plans   *testutils.MockPlanRepository
	factory *testutils.RecipeFactory
	service *appmealplan.Service
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.recipes = new(testutils.MockRecipeRepository)
	suite.history = new(testutils.MockUsageHistory)
	suite.plans = new(testutils.MockPlanRepository)
	suite.factory = testutils.NewRecipeFactory(12345)

	config := appmealplan.DefaultConfig()
	config.Location = time.UTC
	suite.service = appmealplan.NewService(
		suite.recipes,
		suite.history,
		suite.plans,
		appmealplan.NewSeededGenerator(42),
		nil,
		config,
		zap.NewNop(),
	)
	suite.service.SetClock(func() time.Time {
		return time.Date(2025, 4, 23, 9, 30, 0, 0, time.UTC)
	})
}

func (suite *ServiceTestSuite) TearDownTest() {
	suite.recipes.AssertExpectations(suite.T())
	suite.history.AssertExpectations(suite.T())
	suite.plans.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestGenerate_Success() {
	catalog := suite.factory.Catalog(7, 7)
	suite.recipes.On("List", mock.Anything).Return(catalog, nil)
	suite.history.On("FindUsedRecipeIDs", mock.Anything, "user-1", mealplan.Date("2025-03-26")).
		Return(map[uuid.UUID]struct{}{}, nil)

	cal, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{
		UserID:  "user-1",
		Start:   "2025-04-21",
		End:     "2025-04-27",
		Targets: mealplan.SlotTargets{LunchMain: 1, LunchSide: 2, DinnerMain: 1, DinnerSide: 3},
	})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), cal, 7)
	for _, d := range mealplan.Range("2025-04-21", "2025-04-27") {
		assert.Len(suite.T(), cal[d].Lunch, 3)
		assert.Len(suite.T(), cal[d].Dinner, 4)
	}
}

func (suite *ServiceTestSuite) TestGenerate_ExcludesRecentRecipes() {
	catalog := suite.factory.Catalog(3, 3)
	used := map[uuid.UUID]struct{}{catalog[0].ID(): {}, catalog[3].ID(): {}}
	suite.recipes.On("List", mock.Anything).Return(catalog, nil)
	suite.history.On("FindUsedRecipeIDs", mock.Anything, "user-1", mock.Anything).Return(used, nil)

	cal, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{
		UserID:  "user-1",
		Start:   "2025-04-21",
		End:     "2025-04-24",
		Targets: mealplan.DefaultSlotTargets,
	})

	require.NoError(suite.T(), err)
	for _, day := range cal {
		for _, ref := range append(day.Lunch, day.Dinner...) {
			_, recent := used[ref.ID]
			assert.False(suite.T(), recent)
		}
	}
}

func (suite *ServiceTestSuite) TestGenerate_Validation() {
	suite.Run("MissingUser", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{Start: "2025-04-21", End: "2025-04-27"})
		assert.True(suite.T(), errors.Is(err, errors.CodeUnauthorized))
	})

	suite.Run("InvertedRange", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{UserID: "u", Start: "2025-04-27", End: "2025-04-21"})
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("RangeTooLong", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{UserID: "u", Start: "2025-01-01", End: "2025-12-31"})
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("MalformedDate", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{UserID: "u", Start: "2025-13-01", End: "2025-12-31"})
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("NegativeTarget", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{
			UserID:  "u",
			Start:   "2025-04-21",
			End:     "2025-04-21",
			Targets: mealplan.SlotTargets{LunchSide: -1},
		})
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func (suite *ServiceTestSuite) TestGenerate_StoreFailure() {
	suite.recipes.On("List", mock.Anything).Return(nil, stderrors.New("connection refused"))

	cal, err := suite.service.Generate(suite.ctx, inbound.GenerateMealsCommand{
		UserID:  "user-1",
		Start:   "2025-04-21",
		End:     "2025-04-27",
		Targets: mealplan.DefaultSlotTargets,
	})

	assert.Nil(suite.T(), cal)
	assert.True(suite.T(), errors.Is(err, errors.CodeDatabaseError))
}

func (suite *ServiceTestSuite) TestSave_Success() {
	main := suite.factory.Recipe(recipe.CourseRoleMain)
	side := suite.factory.Recipe(recipe.CourseRoleSide)
	cal := mealplan.Calendar{
		"2025-04-21": {Lunch: []*mealplan.RecipeRef{mealplan.RefOf(main), mealplan.RefOf(side)}, Dinner: []*mealplan.RecipeRef{mealplan.RefOf(main)}},
		"2025-04-22": mealplan.NewDayMeals(),
	}

	suite.recipes.On("FindByIDs", mock.Anything, mock.Anything).Return([]*recipe.Recipe{main, side}, nil)
	suite.plans.On("Save", mock.Anything, mock.MatchedBy(func(entries []mealplan.PlanEntry) bool {
		return len(entries) == 3
	})).Return(3, nil)

	saved, err := suite.service.Save(suite.ctx, inbound.SavePlanCommand{UserID: "user-1", Calendar: cal})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, saved)
}

func (suite *ServiceTestSuite) TestSave_StoreFailureSavesNothing() {
	main := suite.factory.Recipe(recipe.CourseRoleMain)
	cal := mealplan.Calendar{
		"2025-04-21": {Lunch: []*mealplan.RecipeRef{mealplan.RefOf(main)}, Dinner: []*mealplan.RecipeRef{mealplan.RefOf(main)}},
	}
	suite.recipes.On("FindByIDs", mock.Anything, mock.Anything).Return([]*recipe.Recipe{main}, nil)
	suite.plans.On("Save", mock.Anything, mock.Anything).Return(0, stderrors.New("insert meal entries: FOREIGN KEY constraint failed"))

	saved, err := suite.service.Save(suite.ctx, inbound.SavePlanCommand{UserID: "user-1", Calendar: cal})

	assert.Zero(suite.T(), saved)
	assert.True(suite.T(), errors.Is(err, errors.CodeDatabaseError))
}

func (suite *ServiceTestSuite) TestSave_EmptyCalendar() {
	saved, err := suite.service.Save(suite.ctx, inbound.SavePlanCommand{
		UserID:   "user-1",
		Calendar: mealplan.Calendar{"2025-04-21": mealplan.NewDayMeals()},
	})

	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), saved)
}

func (suite *ServiceTestSuite) TestSave_UnknownRecipe() {
	known := suite.factory.Recipe(recipe.CourseRoleMain)
	ghost := &mealplan.RecipeRef{ID: uuid.New(), Title: "ghost", CourseRole: recipe.CourseRoleSide}
	cal := mealplan.Calendar{
		"2025-04-21": {Lunch: []*mealplan.RecipeRef{mealplan.RefOf(known), ghost}, Dinner: []*mealplan.RecipeRef{}},
	}
	suite.recipes.On("FindByIDs", mock.Anything, mock.Anything).Return([]*recipe.Recipe{known}, nil)

	_, err := suite.service.Save(suite.ctx, inbound.SavePlanCommand{UserID: "user-1", Calendar: cal})

	assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
	suite.plans.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *ServiceTestSuite) TestSave_InvalidDateKey() {
	r := suite.factory.Recipe(recipe.CourseRoleMain)
	cal := mealplan.Calendar{
		"next tuesday": {Lunch: []*mealplan.RecipeRef{mealplan.RefOf(r)}},
	}

	_, err := suite.service.Save(suite.ctx, inbound.SavePlanCommand{UserID: "user-1", Calendar: cal})

	assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
}

func (suite *ServiceTestSuite) TestDelete_MissingEntryIsNotAnError() {
	id := uuid.New()
	key := mealplan.EntryKey{UserID: "user-1", Date: "2025-04-21", Slot: mealplan.SlotDinner, RecipeID: id}
	suite.plans.On("Delete", mock.Anything, key).Return(true, nil).Once()
	suite.plans.On("Delete", mock.Anything, key).Return(false, nil).Once()

	cmd := inbound.DeleteEntryCommand{UserID: "user-1", Date: "2025-04-21", Slot: mealplan.SlotDinner, RecipeID: id}
	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, cmd))
	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, cmd))
}

func (suite *ServiceTestSuite) TestDelete_InvalidSlot() {
	err := suite.service.Delete(suite.ctx, inbound.DeleteEntryCommand{
		UserID:   "user-1",
		Date:     "2025-04-21",
		Slot:     "breakfast",
		RecipeID: uuid.New(),
	})

	assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
}

func (suite *ServiceTestSuite) TestQuery_FillsEveryDate() {
	r := suite.factory.Recipe(recipe.CourseRoleMain)
	entry := testutils.Entry("user-1", "2025-04-22", mealplan.SlotLunch, r)
	entry.Recipe = mealplan.RefOf(r)
	suite.plans.On("FindRange", mock.Anything, "user-1", mealplan.Date("2025-04-21"), mealplan.Date("2025-04-23")).
		Return([]mealplan.PlanEntry{entry}, nil)

	cal, err := suite.service.Query(suite.ctx, "user-1", "2025-04-21", "2025-04-23")

	require.NoError(suite.T(), err)
	require.Len(suite.T(), cal, 3)
	assert.Empty(suite.T(), cal["2025-04-21"].Lunch)
	require.Len(suite.T(), cal["2025-04-22"].Lunch, 1)
	assert.Equal(suite.T(), r.ID(), cal["2025-04-22"].Lunch[0].ID)
	assert.Empty(suite.T(), cal["2025-04-23"].Dinner)
}

func (suite *ServiceTestSuite) TestQuery_LongRangeIsAccepted() {
	suite.plans.On("FindRange", mock.Anything, "user-1", mealplan.Date("2025-01-01"), mealplan.Date("2025-12-31")).
		Return([]mealplan.PlanEntry{}, nil)

	cal, err := suite.service.Query(suite.ctx, "user-1", "2025-01-01", "2025-12-31")

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), cal, 365)
}

func (suite *ServiceTestSuite) TestRollingWindow() {
	// today is Wednesday 2025-04-23; four weeks back is Wednesday 2025-03-26
	suite.Run("SundayStart", func() {
		suite.plans.On("FindRange", mock.Anything, "user-1", mealplan.Date("2025-03-23"), mealplan.Date("2025-04-26")).
			Return([]mealplan.PlanEntry{}, nil).Once()

		window, err := suite.service.RollingWindow(suite.ctx, "user-1", time.Sunday)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.Date("2025-03-23"), window.Start)
		assert.Equal(suite.T(), mealplan.Date("2025-04-26"), window.End)
		assert.Len(suite.T(), window.Calendar, 35)
	})

	suite.Run("MondayStart", func() {
		suite.plans.On("FindRange", mock.Anything, "user-1", mealplan.Date("2025-03-24"), mealplan.Date("2025-04-27")).
			Return([]mealplan.PlanEntry{}, nil).Once()

		window, err := suite.service.RollingWindow(suite.ctx, "user-1", time.Monday)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.Date("2025-03-24"), window.Start)
		assert.Equal(suite.T(), mealplan.Date("2025-04-27"), window.End)
	})
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
