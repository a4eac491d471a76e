package mealplan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

type CalendarTestSuite struct {
	suite.Suite
}

func (suite *CalendarTestSuite) TestNewCalendar() {
	suite.Run("EveryDate_ShouldHaveBothSlots", func() {
		cal := NewCalendar(Range("2025-04-21", "2025-04-23"))

		require.Len(suite.T(), cal, 3)
		raw, err := json.Marshal(cal)
		require.NoError(suite.T(), err)
		assert.JSONEq(suite.T(), `{
			"2025-04-21": {"lunch": [], "dinner": []},
			"2025-04-22": {"lunch": [], "dinner": []},
			"2025-04-23": {"lunch": [], "dinner": []}
		}`, string(raw))
	})

	suite.Run("Normalize_ShouldFillMissingSlots", func() {
		var cal Calendar
		require.NoError(suite.T(), json.Unmarshal([]byte(`{"2025-04-21":{"lunch":[null]}}`), &cal))

		cal.Normalize()

		assert.Len(suite.T(), cal["2025-04-21"].Lunch, 1)
		assert.NotNil(suite.T(), cal["2025-04-21"].Dinner)
	})
}

func (suite *CalendarTestSuite) TestEntries() {
	suite.Run("NilCells_ShouldBeSkipped", func() {
		main, side := uuid.New(), uuid.New()
		note := "double portion"
		cal := NewCalendar(Range("2025-04-21", "2025-04-22"))
		cal.Add("2025-04-22", SlotDinner, &RecipeRef{ID: main, CourseRole: recipe.CourseRoleMain, Note: &note})
		cal.Add("2025-04-21", SlotDinner, nil)
		cal.Add("2025-04-21", SlotLunch, &RecipeRef{ID: side, CourseRole: recipe.CourseRoleSide})

		entries := cal.Entries("user-1")

		require.Len(suite.T(), entries, 2)
		assert.Equal(suite.T(), Date("2025-04-21"), entries[0].Date)
		assert.Equal(suite.T(), SlotLunch, entries[0].Slot)
		assert.Equal(suite.T(), side, entries[0].RecipeID)
		assert.Equal(suite.T(), main, entries[1].RecipeID)
		assert.Equal(suite.T(), &note, entries[1].Note)
		assert.Equal(suite.T(), "user-1", entries[1].UserID)
	})

	suite.Run("RecipeIDs_ShouldBeDistinct", func() {
		id := uuid.New()
		cal := NewCalendar(Range("2025-04-21", "2025-04-22"))
		cal.Add("2025-04-21", SlotLunch, &RecipeRef{ID: id})
		cal.Add("2025-04-22", SlotDinner, &RecipeRef{ID: id})

		assert.Equal(suite.T(), []uuid.UUID{id}, cal.RecipeIDs())
	})
}

func (suite *CalendarTestSuite) TestCalendarFrom() {
	suite.Run("EntriesOutsideDates_ShouldBeIgnored", func() {
		early, late, outside := uuid.New(), uuid.New(), uuid.New()
		now := time.Now()
		entries := []PlanEntry{
			{Date: "2025-04-21", Slot: SlotDinner, RecipeID: late, CreatedAt: now},
			{Date: "2025-04-21", Slot: SlotDinner, RecipeID: early, CreatedAt: now.Add(-time.Minute),
				Recipe: &RecipeRef{ID: early, Title: "Curry"}},
			{Date: "2025-05-01", Slot: SlotLunch, RecipeID: outside},
		}

		cal := CalendarFrom(Range("2025-04-21", "2025-04-22"), entries)

		require.Len(suite.T(), cal, 2)
		dinner := cal["2025-04-21"].Dinner
		require.Len(suite.T(), dinner, 2)
		assert.Equal(suite.T(), early, dinner[0].ID)
		assert.Equal(suite.T(), "Curry", dinner[0].Title)
		assert.Equal(suite.T(), late, dinner[1].ID)
		assert.Empty(suite.T(), cal["2025-04-22"].Lunch)
	})
}

func (suite *CalendarTestSuite) TestPlanEntryValidate() {
	valid := PlanEntry{UserID: "u", Date: "2025-04-21", Slot: SlotLunch, RecipeID: uuid.New()}
	assert.NoError(suite.T(), valid.Validate())

	noUser := valid
	noUser.UserID = ""
	assert.ErrorIs(suite.T(), noUser.Validate(), ErrMissingUser)

	badSlot := valid
	badSlot.Slot = "breakfast"
	assert.ErrorIs(suite.T(), badSlot.Validate(), ErrInvalidSlot)

	noRecipe := valid
	noRecipe.RecipeID = uuid.Nil
	assert.ErrorIs(suite.T(), noRecipe.Validate(), ErrMissingRecipe)
}

func (suite *CalendarTestSuite) TestSlotTargets() {
	assert.NoError(suite.T(), DefaultSlotTargets.Validate())
	assert.ErrorIs(suite.T(), SlotTargets{LunchSide: -1}.Validate(), ErrNegativeTarget)

	mains, sides := DefaultSlotTargets.For(SlotDinner)
	assert.Equal(suite.T(), 1, mains)
	assert.Equal(suite.T(), 3, sides)
}

func TestCalendarTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarTestSuite))
}
