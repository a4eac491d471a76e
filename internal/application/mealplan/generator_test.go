package mealplan

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

func catalogOf(mains, sides int) []*recipe.Recipe {
	var out []*recipe.Recipe
	for i := 0; i < mains; i++ {
		out = append(out, recipe.Restore(uuid.New(), fmt.Sprintf("main-%02d", i), recipe.CourseRoleMain, recipe.CategoryOther, nil, nil, time.Time{}, time.Time{}))
	}
	for i := 0; i < sides; i++ {
		out = append(out, recipe.Restore(uuid.New(), fmt.Sprintf("side-%02d", i), recipe.CourseRoleSide, recipe.CategoryOther, nil, nil, time.Time{}, time.Time{}))
	}
	return out
}

type GeneratorTestSuite struct {
	suite.Suite
	week []mealplan.Date
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.week = mealplan.Range("2025-04-21", "2025-04-27")
}

func (suite *GeneratorTestSuite) TestWeekScenario() {
	gen := NewSeededGenerator(42)
	targets := mealplan.SlotTargets{LunchMain: 1, LunchSide: 2, DinnerMain: 1, DinnerSide: 3}

	result := gen.Generate(suite.week, targets, catalogOf(7, 7), nil)

	require.Len(suite.T(), result.Calendar, 7)
	for _, d := range suite.week {
		day, ok := result.Calendar[d]
		require.True(suite.T(), ok, d)
		require.Len(suite.T(), day.Lunch, 3, d)
		require.Len(suite.T(), day.Dinner, 4, d)

		assert.Equal(suite.T(), recipe.CourseRoleMain, day.Lunch[0].CourseRole)
		assert.Equal(suite.T(), recipe.CourseRoleSide, day.Lunch[1].CourseRole)
		assert.Equal(suite.T(), recipe.CourseRoleSide, day.Lunch[2].CourseRole)
		assert.Equal(suite.T(), recipe.CourseRoleMain, day.Dinner[0].CourseRole)
		for _, ref := range day.Dinner[1:] {
			assert.Equal(suite.T(), recipe.CourseRoleSide, ref.CourseRole)
		}
	}
	assert.Equal(suite.T(), 49, result.Requested)
	assert.Equal(suite.T(), 49, result.Drawn)
	assert.Empty(suite.T(), result.Shortfalls)
}

func (suite *GeneratorTestSuite) TestNoRepeatWithinCell() {
	gen := NewSeededGenerator(7)
	targets := mealplan.SlotTargets{LunchSide: 5, DinnerSide: 5}

	result := gen.Generate(suite.week, targets, catalogOf(0, 5), nil)

	for _, d := range suite.week {
		for _, slot := range mealplan.Slots {
			seen := map[uuid.UUID]bool{}
			for _, ref := range result.Calendar[d].Get(slot) {
				assert.False(suite.T(), seen[ref.ID], "duplicate in %s %s", d, slot)
				seen[ref.ID] = true
			}
			assert.Len(suite.T(), seen, 5)
		}
	}
}

func (suite *GeneratorTestSuite) TestSmallPoolIsClamped() {
	gen := NewSeededGenerator(1)
	targets := mealplan.SlotTargets{LunchMain: 3, LunchSide: 1, DinnerMain: 0, DinnerSide: 2}

	result := gen.Generate(suite.week[:2], targets, catalogOf(2, 0), nil)

	for _, d := range suite.week[:2] {
		assert.Len(suite.T(), result.Calendar[d].Lunch, 2)
		assert.NotNil(suite.T(), result.Calendar[d].Dinner)
		assert.Empty(suite.T(), result.Calendar[d].Dinner)
	}
	// per day: lunch main short by 1, lunch side short by 1, dinner side short by 2
	assert.Len(suite.T(), result.Shortfalls, 6)
	assert.Equal(suite.T(), 12, result.Requested)
	assert.Equal(suite.T(), 4, result.Drawn)
}

func (suite *GeneratorTestSuite) TestEmptyInputs() {
	gen := NewSeededGenerator(1)

	suite.Run("NoDates_ShouldReturnEmptyCalendar", func() {
		result := gen.Generate(nil, mealplan.DefaultSlotTargets, catalogOf(3, 3), nil)
		assert.NotNil(suite.T(), result.Calendar)
		assert.Empty(suite.T(), result.Calendar)
	})

	suite.Run("EmptyCatalog_ShouldKeepEveryKey", func() {
		result := gen.Generate(suite.week, mealplan.DefaultSlotTargets, nil, nil)
		require.Len(suite.T(), result.Calendar, 7)
		for _, day := range result.Calendar {
			assert.Empty(suite.T(), day.Lunch)
			assert.Empty(suite.T(), day.Dinner)
		}
	})
}

func (suite *GeneratorTestSuite) TestRecentRecipesAreExcluded() {
	catalog := catalogOf(6, 6)
	used := map[uuid.UUID]struct{}{
		catalog[0].ID(): {},
		catalog[1].ID(): {},
		catalog[6].ID(): {},
	}
	gen := NewSeededGenerator(99)

	result := gen.Generate(suite.week, mealplan.DefaultSlotTargets, catalog, used)

	for _, d := range suite.week {
		for _, slot := range mealplan.Slots {
			for _, ref := range result.Calendar[d].Get(slot) {
				_, recent := used[ref.ID]
				assert.False(suite.T(), recent, "%s was used recently", ref.Title)
			}
		}
	}
	assert.Empty(suite.T(), result.Shortfalls)
}

func (suite *GeneratorTestSuite) TestSameSeedSameCalendar() {
	catalog := catalogOf(10, 10)

	first := NewSeededGenerator(2025).Generate(suite.week, mealplan.DefaultSlotTargets, catalog, nil)
	second := NewSeededGenerator(2025).Generate(suite.week, mealplan.DefaultSlotTargets, catalog, nil)

	assert.Equal(suite.T(), first.Calendar, second.Calendar)
}

func (suite *GeneratorTestSuite) TestRepeatsAcrossDaysByDefault() {
	catalog := catalogOf(1, 0)
	targets := mealplan.SlotTargets{LunchMain: 1, DinnerMain: 1}

	result := NewSeededGenerator(3).Generate(suite.week, targets, catalog, nil)

	for _, d := range suite.week {
		require.Len(suite.T(), result.Calendar[d].Lunch, 1)
		require.Len(suite.T(), result.Calendar[d].Dinner, 1)
		assert.Equal(suite.T(), catalog[0].ID(), result.Calendar[d].Lunch[0].ID)
		assert.Equal(suite.T(), catalog[0].ID(), result.Calendar[d].Dinner[0].ID)
	}
}

func (suite *GeneratorTestSuite) TestRunLocalExclusion() {
	catalog := catalogOf(14, 0)
	targets := mealplan.SlotTargets{LunchMain: 1, DinnerMain: 1}
	gen := NewSeededGenerator(5, WithRunLocalExclusion(true))

	suite.Run("EveryPickIsDistinct", func() {
		result := gen.Generate(suite.week, targets, catalog, nil)
		seen := map[uuid.UUID]bool{}
		for _, d := range suite.week {
			for _, slot := range mealplan.Slots {
				for _, ref := range result.Calendar[d].Get(slot) {
					assert.False(suite.T(), seen[ref.ID])
					seen[ref.ID] = true
				}
			}
		}
		assert.Len(suite.T(), seen, 14)
	})

	suite.Run("ExhaustedPoolShortensLaterCells", func() {
		result := gen.Generate(suite.week, targets, catalog[:10], nil)
		assert.Equal(suite.T(), 10, result.Drawn)
		assert.Len(suite.T(), result.Shortfalls, 4)
	})
}

func (suite *GeneratorTestSuite) TestDrawIsRoughlyUniform() {
	catalog := catalogOf(3, 0)
	days := mealplan.Range("2020-01-01", "2028-03-18") // 3000 days
	targets := mealplan.SlotTargets{LunchMain: 1}

	result := NewSeededGenerator(11).Generate(days, targets, catalog, nil)

	counts := map[uuid.UUID]int{}
	for _, day := range result.Calendar {
		counts[day.Lunch[0].ID]++
	}
	require.Len(suite.T(), counts, 3)
	for _, n := range counts {
		assert.InDelta(suite.T(), len(days)/3, n, 150)
	}
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func BenchmarkGenerate(b *testing.B) {
	for _, size := range []int{50, 500} {
		b.Run(fmt.Sprintf("catalog_%d", size), func(b *testing.B) {
			catalog := catalogOf(size/2, size/2)
			days := mealplan.Range("2025-04-01", "2025-05-31")
			gen := NewSeededGenerator(1)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				gen.Generate(days, mealplan.DefaultSlotTargets, catalog, nil)
			}
		})
	}
}
