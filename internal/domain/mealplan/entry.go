package mealplan

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PlanEntry is one persisted assignment of a recipe to a day and slot
type PlanEntry struct {
	ID        uuid.UUID
	UserID    string
	Date      Date
	Slot      Slot
	RecipeID  uuid.UUID
	Note      *string
	CreatedAt time.Time

	// Recipe is filled in when entries are read back with their recipe
	Recipe *RecipeRef
}

// Validate checks the entry before it is stored
func (e PlanEntry) Validate() error {
	if e.UserID == "" {
		return ErrMissingUser
	}
	if _, err := ParseDate(string(e.Date)); err != nil {
		return err
	}
	if _, err := ParseSlot(string(e.Slot)); err != nil {
		return err
	}
	if e.RecipeID == uuid.Nil {
		return ErrMissingRecipe
	}
	return nil
}

// Key identifies entries that count as duplicates of each other
func (e PlanEntry) Key() EntryKey {
	return EntryKey{UserID: e.UserID, Date: e.Date, Slot: e.Slot, RecipeID: e.RecipeID}
}

// EntryKey is the (user, date, slot, recipe) identity of an entry
type EntryKey struct {
	UserID   string
	Date     Date
	Slot     Slot
	RecipeID uuid.UUID
}

// SortEntries orders entries by date, then lunch before dinner, then
// creation time
func SortEntries(entries []PlanEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Slot != b.Slot {
			return a.Slot.order() < b.Slot.order()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// CalendarFrom places entries into a calendar seeded with every date
func CalendarFrom(dates []Date, entries []PlanEntry) Calendar {
	cal := NewCalendar(dates)
	sorted := append([]PlanEntry(nil), entries...)
	SortEntries(sorted)
	for _, e := range sorted {
		if _, ok := cal[e.Date]; !ok {
			continue
		}
		ref := e.Recipe
		if ref == nil {
			ref = &RecipeRef{ID: e.RecipeID}
		} else {
			copied := *ref
			ref = &copied
		}
		ref.Note = e.Note
		cal.Add(e.Date, e.Slot, ref)
	}
	return cal
}
