package mealplan

import (
	"sort"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/recipe"
)

// Slot is a meal occasion within a day
type Slot string

const (
	SlotLunch  Slot = "lunch"
	SlotDinner Slot = "dinner"
)

// Slots lists the slots in display order
var Slots = []Slot{SlotLunch, SlotDinner}

// ParseSlot validates a slot name
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotLunch, SlotDinner:
		return Slot(s), nil
	}
	return "", ErrInvalidSlot
}

// order sorts lunch before dinner
func (s Slot) order() int {
	if s == SlotLunch {
		return 0
	}
	return 1
}

// SlotTargets is how many mains and sides to draw for each slot
type SlotTargets struct {
	LunchMain  int `json:"lunch_main_count"`
	LunchSide  int `json:"lunch_side_count"`
	DinnerMain int `json:"dinner_main_count"`
	DinnerSide int `json:"dinner_side_count"`
}

// DefaultSlotTargets is one main and two sides at lunch, one main and three
// sides at dinner
var DefaultSlotTargets = SlotTargets{LunchMain: 1, LunchSide: 2, DinnerMain: 1, DinnerSide: 3}

// Validate rejects negative counts
func (t SlotTargets) Validate() error {
	if t.LunchMain < 0 || t.LunchSide < 0 || t.DinnerMain < 0 || t.DinnerSide < 0 {
		return ErrNegativeTarget
	}
	return nil
}

// For returns the main and side counts of a slot
func (t SlotTargets) For(slot Slot) (mains, sides int) {
	if slot == SlotLunch {
		return t.LunchMain, t.LunchSide
	}
	return t.DinnerMain, t.DinnerSide
}

// RecipeRef is a recipe as it appears in a calendar cell
type RecipeRef struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	CourseRole recipe.CourseRole `json:"course_role"`
	Category   recipe.Category   `json:"category,omitempty"`
	Note       *string           `json:"note,omitempty"`
}

// RefOf builds a reference to a catalog recipe
func RefOf(r *recipe.Recipe) *RecipeRef {
	return &RecipeRef{
		ID:         r.ID(),
		Title:      r.Title(),
		CourseRole: r.CourseRole(),
		Category:   r.Category(),
	}
}

// DayMeals holds the lunch and dinner picks of one day. A nil element is a
// cell the user cleared.
type DayMeals struct {
	Lunch  []*RecipeRef `json:"lunch"`
	Dinner []*RecipeRef `json:"dinner"`
}

// NewDayMeals returns a day with both slots present and empty
func NewDayMeals() DayMeals {
	return DayMeals{Lunch: []*RecipeRef{}, Dinner: []*RecipeRef{}}
}

// Get returns the picks of a slot
func (d DayMeals) Get(slot Slot) []*RecipeRef {
	if slot == SlotLunch {
		return d.Lunch
	}
	return d.Dinner
}

// Calendar maps each day to its meals
type Calendar map[Date]DayMeals

// NewCalendar returns a calendar with an empty DayMeals for every date
func NewCalendar(dates []Date) Calendar {
	c := make(Calendar, len(dates))
	for _, d := range dates {
		c[d] = NewDayMeals()
	}
	return c
}

// Add appends a pick to a slot, creating the day when missing
func (c Calendar) Add(date Date, slot Slot, ref *RecipeRef) {
	day, ok := c[date]
	if !ok {
		day = NewDayMeals()
	}
	if slot == SlotLunch {
		day.Lunch = append(day.Lunch, ref)
	} else {
		day.Dinner = append(day.Dinner, ref)
	}
	c[date] = day
}

// Normalize replaces missing slot arrays with empty ones
func (c Calendar) Normalize() {
	for d, day := range c {
		if day.Lunch == nil {
			day.Lunch = []*RecipeRef{}
		}
		if day.Dinner == nil {
			day.Dinner = []*RecipeRef{}
		}
		c[d] = day
	}
}

// Dates returns the calendar's days in chronological order
func (c Calendar) Dates() []Date {
	dates := make([]Date, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Entries flattens every non-nil pick into plan entries for userID, in
// date order with lunch before dinner.
func (c Calendar) Entries(userID string) []PlanEntry {
	var entries []PlanEntry
	for _, d := range c.Dates() {
		day := c[d]
		for _, slot := range Slots {
			for _, ref := range day.Get(slot) {
				if ref == nil {
					continue
				}
				entries = append(entries, PlanEntry{
					UserID:   userID,
					Date:     d,
					Slot:     slot,
					RecipeID: ref.ID,
					Note:     ref.Note,
				})
			}
		}
	}
	return entries
}

// RecipeIDs returns the distinct recipe ids referenced by the calendar
func (c Calendar) RecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, d := range c.Dates() {
		for _, slot := range Slots {
			for _, ref := range c[d].Get(slot) {
				if ref == nil {
					continue
				}
				if _, ok := seen[ref.ID]; ok {
					continue
				}
				seen[ref.ID] = struct{}{}
				ids = append(ids, ref.ID)
			}
		}
	}
	return ids
}
