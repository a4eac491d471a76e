package mealplan

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

// Generator fills calendar cells with recipes drawn at random from the
// catalog. It has no side effects; the same seed, catalog and inputs always
// produce the same calendar.
type Generator struct {
	mu                sync.Mutex
	rng               *rand.Rand
	runLocalExclusion bool
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithRunLocalExclusion stops a recipe from being drawn twice within one
// run. Off by default, so a recipe can repeat on different days.
func WithRunLocalExclusion(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.runLocalExclusion = enabled
	}
}

// NewGenerator creates a generator drawing from rng
func NewGenerator(rng *rand.Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{rng: rng}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeededGenerator creates a generator with a PCG source. A zero seed
// seeds from the clock.
func NewSeededGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// Shortfall records a cell that got fewer recipes than requested
type Shortfall struct {
	Date      mealplan.Date
	Slot      mealplan.Slot
	Role      recipe.CourseRole
	Requested int
	Drawn     int
}

// GenerationResult is a generated calendar plus draw statistics
type GenerationResult struct {
	Calendar   mealplan.Calendar
	Requested  int
	Drawn      int
	Shortfalls []Shortfall
}

// Generate draws, for every date and slot, the target number of mains from
// the main pool followed by the target number of sides from the side pool.
// Recipes in used are excluded from both pools. Draws are uniform without
// replacement within a cell; a pool smaller than its target yields the whole
// pool.
func (g *Generator) Generate(
	dates []mealplan.Date,
	targets mealplan.SlotTargets,
	catalog []*recipe.Recipe,
	used map[uuid.UUID]struct{},
) GenerationResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	mains, sides := partition(catalog, used)
	result := GenerationResult{Calendar: mealplan.NewCalendar(dates)}

	for _, date := range dates {
		for _, slot := range mealplan.Slots {
			mainCount, sideCount := targets.For(slot)
			for _, want := range []struct {
				role  recipe.CourseRole
				count int
				pool  *[]*recipe.Recipe
			}{
				{recipe.CourseRoleMain, mainCount, &mains},
				{recipe.CourseRoleSide, sideCount, &sides},
			} {
				picked := g.draw(want.pool, want.count)
				for _, r := range picked {
					result.Calendar.Add(date, slot, mealplan.RefOf(r))
				}
				result.Requested += want.count
				result.Drawn += len(picked)
				if len(picked) < want.count {
					result.Shortfalls = append(result.Shortfalls, Shortfall{
						Date:      date,
						Slot:      slot,
						Role:      want.role,
						Requested: want.count,
						Drawn:     len(picked),
					})
				}
			}
		}
	}

	return result
}

// draw takes up to n recipes from pool with a partial Fisher-Yates shuffle
// over a copy. With run-local exclusion the picks leave the pool.
func (g *Generator) draw(pool *[]*recipe.Recipe, n int) []*recipe.Recipe {
	candidates := append([]*recipe.Recipe(nil), *pool...)
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		j := i + g.rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	picked := candidates[:n:n]
	if g.runLocalExclusion {
		*pool = candidates[n:]
	}
	return picked
}

func partition(catalog []*recipe.Recipe, used map[uuid.UUID]struct{}) (mains, sides []*recipe.Recipe) {
	for _, r := range catalog {
		if r == nil {
			continue
		}
		if _, recent := used[r.ID()]; recent {
			continue
		}
		switch r.CourseRole() {
		case recipe.CourseRoleMain:
			mains = append(mains, r)
		case recipe.CourseRoleSide:
			sides = append(sides, r)
		}
	}
	return mains, sides
}
