package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	gormrepo "github.com/weeklydish/planner/internal/infrastructure/persistence/gorm"
	"github.com/weeklydish/planner/test/testutils"
)

func ptr[T any](v T) *T { return &v }

// RepositoryTestSuite runs the recipe and plan repositories against an
// in-memory SQLite schema
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	testDB  *testutils.TestDatabase
	recipes *gormrepo.RecipeRepository
	plans   *gormrepo.PlanRepository
	factory *testutils.RecipeFactory
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.testDB = testutils.SetupTestDatabase(suite.T())
	suite.recipes = gormrepo.NewRecipeRepository(suite.testDB.GormDB)
	suite.plans = gormrepo.NewPlanRepository(suite.testDB.GormDB)
	suite.factory = testutils.NewRecipeFactory(time.Now().UnixNano())
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.testDB.TruncateAllTables()
}

func (suite *RepositoryTestSuite) createRecipe(title string, role recipe.CourseRole) *recipe.Recipe {
	r, err := recipe.NewRecipe(title, role, recipe.CategoryJapanese)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.recipes.Create(suite.ctx, r))
	return r
}

func (suite *RepositoryTestSuite) TestCreateAndFindRecipe() {
	r, err := recipe.NewRecipe("肉じゃが", recipe.CourseRoleMain, recipe.CategoryJapanese)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), r.AddIngredient(recipe.IngredientLine{Name: "玉ねぎ", Quantity: recipe.Structured(1, "個")}))
	require.NoError(suite.T(), r.AddIngredient(recipe.IngredientLine{Name: "塩", Quantity: recipe.FreeText("少々")}))
	require.NoError(suite.T(), r.AddIngredient(recipe.IngredientLine{Name: "水", Quantity: recipe.Unknown()}))
	require.NoError(suite.T(), r.AddStep("切る"))
	require.NoError(suite.T(), r.AddStep("煮る"))

	require.NoError(suite.T(), suite.recipes.Create(suite.ctx, r))

	found, err := suite.recipes.FindByID(suite.ctx, r.ID())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "肉じゃが", found.Title())
	assert.Equal(suite.T(), recipe.CourseRoleMain, found.CourseRole())
	assert.Equal(suite.T(), recipe.CategoryJapanese, found.Category())

	lines := found.Ingredients()
	require.Len(suite.T(), lines, 3)
	assert.Equal(suite.T(), "玉ねぎ", lines[0].Name)
	assert.True(suite.T(), lines[0].Quantity.IsStructured())
	assert.Equal(suite.T(), 1.0, lines[0].Quantity.Amount())
	assert.Equal(suite.T(), "個", lines[0].Quantity.Unit())
	assert.Equal(suite.T(), recipe.QuantityFreeText, lines[1].Quantity.Kind())
	assert.Equal(suite.T(), "少々", lines[1].Quantity.Text())
	assert.Equal(suite.T(), recipe.QuantityUnknown, lines[2].Quantity.Kind())

	steps := found.Steps()
	require.Len(suite.T(), steps, 2)
	assert.Equal(suite.T(), 1, steps[0].Number)
	assert.Equal(suite.T(), "煮る", steps[1].Description)
}

func (suite *RepositoryTestSuite) TestFindRecipe_NotFound() {
	_, err := suite.recipes.FindByID(suite.ctx, uuid.New())
	assert.ErrorIs(suite.T(), err, recipe.ErrRecipeNotFound)
}

func (suite *RepositoryTestSuite) TestListSortedByTitle() {
	suite.createRecipe("b-side", recipe.CourseRoleSide)
	suite.createRecipe("a-main", recipe.CourseRoleMain)
	suite.createRecipe("c-main", recipe.CourseRoleMain)

	list, err := suite.recipes.List(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 3)
	assert.Equal(suite.T(), "a-main", list[0].Title())
	assert.Equal(suite.T(), "b-side", list[1].Title())
	assert.Equal(suite.T(), "c-main", list[2].Title())
}

func (suite *RepositoryTestSuite) TestFindByIDs_SkipsUnknown() {
	a := suite.factory.Recipe(recipe.CourseRoleMain)
	b := suite.factory.Recipe(recipe.CourseRoleSide)
	require.NoError(suite.T(), suite.recipes.Create(suite.ctx, a))
	require.NoError(suite.T(), suite.recipes.Create(suite.ctx, b))

	found, err := suite.recipes.FindByIDs(suite.ctx, []uuid.UUID{b.ID(), uuid.New(), a.ID()})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), found, 2)
	assert.Equal(suite.T(), b.ID(), found[0].ID())
	assert.Equal(suite.T(), a.ID(), found[1].ID())
	assert.Len(suite.T(), found[1].Ingredients(), len(a.Ingredients()))
}

func (suite *RepositoryTestSuite) TestSaveThenFindRange() {
	main := suite.createRecipe("main", recipe.CourseRoleMain)
	side := suite.createRecipe("side", recipe.CourseRoleSide)

	entries := []mealplan.PlanEntry{
		{UserID: "u1", Date: "2025-04-22", Slot: mealplan.SlotDinner, RecipeID: main.ID()},
		{UserID: "u1", Date: "2025-04-22", Slot: mealplan.SlotLunch, RecipeID: side.ID(), Note: ptr("leftovers")},
		{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: main.ID()},
		{UserID: "u2", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: side.ID()},
		{UserID: "u1", Date: "2025-04-30", Slot: mealplan.SlotLunch, RecipeID: side.ID()},
	}
	saved, err := suite.plans.Save(suite.ctx, entries)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, saved)

	found, err := suite.plans.FindRange(suite.ctx, "u1", "2025-04-21", "2025-04-22")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), found, 3)

	assert.Equal(suite.T(), mealplan.Date("2025-04-21"), found[0].Date)
	assert.Equal(suite.T(), mealplan.Date("2025-04-22"), found[1].Date)
	assert.Equal(suite.T(), mealplan.SlotLunch, found[1].Slot)
	assert.Equal(suite.T(), mealplan.SlotDinner, found[2].Slot)

	require.NotNil(suite.T(), found[1].Recipe)
	assert.Equal(suite.T(), "side", found[1].Recipe.Title)
	require.NotNil(suite.T(), found[1].Note)
	assert.Equal(suite.T(), "leftovers", *found[1].Note)
	assert.NotEqual(suite.T(), uuid.Nil, found[0].ID)
}

func (suite *RepositoryTestSuite) TestSaveKeepsDuplicatesByDefault() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)
	entry := mealplan.PlanEntry{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: r.ID()}

	saved, err := suite.plans.Save(suite.ctx, []mealplan.PlanEntry{entry, entry})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, saved)
	assert.EqualValues(suite.T(), 2, suite.testDB.CountRecords("meal_entries"))
}

func (suite *RepositoryTestSuite) TestSaveWithDedup() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)
	dedup := gormrepo.NewPlanRepository(suite.testDB.GormDB, gormrepo.WithDedupOnInsert(true))
	entry := mealplan.PlanEntry{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: r.ID()}

	saved, err := dedup.Save(suite.ctx, []mealplan.PlanEntry{entry, entry})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, saved)

	saved, err = dedup.Save(suite.ctx, []mealplan.PlanEntry{entry})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, saved)
	assert.EqualValues(suite.T(), 1, suite.testDB.CountRecords("meal_entries"))
}

func (suite *RepositoryTestSuite) TestSaveIsAllOrNothing() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)
	entries := []mealplan.PlanEntry{
		{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: r.ID()},
		{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotDinner, RecipeID: uuid.New()},
	}

	saved, err := suite.plans.Save(suite.ctx, entries)

	require.Error(suite.T(), err)
	assert.Zero(suite.T(), saved)
	assert.EqualValues(suite.T(), 0, suite.testDB.CountRecords("meal_entries"))
}

func (suite *RepositoryTestSuite) TestDeleteRemovesOneMatch() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)
	entry := mealplan.PlanEntry{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotLunch, RecipeID: r.ID()}
	_, err := suite.plans.Save(suite.ctx, []mealplan.PlanEntry{entry, entry})
	require.NoError(suite.T(), err)

	deleted, err := suite.plans.Delete(suite.ctx, entry.Key())
	require.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)
	assert.EqualValues(suite.T(), 1, suite.testDB.CountRecords("meal_entries"))

	deleted, err = suite.plans.Delete(suite.ctx, entry.Key())
	require.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)

	deleted, err = suite.plans.Delete(suite.ctx, entry.Key())
	require.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)
}

func (suite *RepositoryTestSuite) TestFindUsedRecipeIDs() {
	old := suite.createRecipe("old", recipe.CourseRoleMain)
	recent := suite.createRecipe("recent", recipe.CourseRoleMain)
	future := suite.createRecipe("future", recipe.CourseRoleSide)
	other := suite.createRecipe("other user", recipe.CourseRoleSide)

	_, err := suite.plans.Save(suite.ctx, []mealplan.PlanEntry{
		{UserID: "u1", Date: "2025-03-01", Slot: mealplan.SlotLunch, RecipeID: old.ID()},
		{UserID: "u1", Date: "2025-03-26", Slot: mealplan.SlotLunch, RecipeID: recent.ID()},
		{UserID: "u1", Date: "2025-05-10", Slot: mealplan.SlotDinner, RecipeID: future.ID()},
		{UserID: "u2", Date: "2025-04-01", Slot: mealplan.SlotDinner, RecipeID: other.ID()},
	})
	require.NoError(suite.T(), err)

	used, err := suite.plans.FindUsedRecipeIDs(suite.ctx, "u1", "2025-03-26")
	require.NoError(suite.T(), err)

	assert.Len(suite.T(), used, 2)
	assert.Contains(suite.T(), used, recent.ID())
	assert.Contains(suite.T(), used, future.ID())
	assert.NotContains(suite.T(), used, old.ID())
	assert.NotContains(suite.T(), used, other.ID())
}

func (suite *RepositoryTestSuite) TestRecordAppendsHistory() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)

	require.NoError(suite.T(), suite.plans.Record(suite.ctx, mealplan.PlanEntry{
		UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotDinner, RecipeID: r.ID(),
	}))

	used, err := suite.plans.FindUsedRecipeIDs(suite.ctx, "u1", "2025-04-01")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), used, r.ID())
}

func (suite *RepositoryTestSuite) TestRecordIgnoresDedup() {
	r := suite.createRecipe("main", recipe.CourseRoleMain)
	dedup := gormrepo.NewPlanRepository(suite.testDB.GormDB, gormrepo.WithDedupOnInsert(true))
	entry := mealplan.PlanEntry{UserID: "u1", Date: "2025-04-21", Slot: mealplan.SlotDinner, RecipeID: r.ID()}

	require.NoError(suite.T(), dedup.Record(suite.ctx, entry))
	require.NoError(suite.T(), dedup.Record(suite.ctx, entry))

	assert.EqualValues(suite.T(), 2, suite.testDB.CountRecords("meal_entries"))
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
