package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository stores plan entries in the meal_entries table. The same
// table serves as the usage history read by the generator.
type PlanRepository struct {
	db            *gorm.DB
	dedupOnInsert bool
	now           func() time.Time
}

// PlanRepositoryOption configures a PlanRepository
type PlanRepositoryOption func(*PlanRepository)

// WithDedupOnInsert skips entries whose (user, date, slot, recipe) already
// exists, in the table or earlier in the same batch
func WithDedupOnInsert(enabled bool) PlanRepositoryOption {
	return func(r *PlanRepository) {
		r.dedupOnInsert = enabled
	}
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB, opts ...PlanRepositoryOption) *PlanRepository {
	r := &PlanRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save inserts the entries in one transaction and returns how many rows
// were written
func (r *PlanRepository) Save(ctx context.Context, entries []mealplan.PlanEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
	}

	saved := 0
	base := r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[mealplan.EntryKey]struct{}, len(entries))
		models := make([]*MealEntryModel, 0, len(entries))

		for i, e := range entries {
			if r.dedupOnInsert {
				key := e.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				exists, err := entryExists(tx, key)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
			}

			model := EntryToModel(e)
			if model.CreatedAt.IsZero() {
				// microsecond steps keep submission order within a batch
				model.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
			}
			models = append(models, model)
		}

		if len(models) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&models).Error; err != nil {
			return fmt.Errorf("insert meal entries: %w", err)
		}
		saved = len(models)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return saved, nil
}

// Record appends a single entry to the history. It never de-duplicates,
// whatever the repository's insert policy.
func (r *PlanRepository) Record(ctx context.Context, entry mealplan.PlanEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	model := EntryToModel(entry)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("insert meal entry: %w", err)
	}
	return nil
}

// Delete removes the oldest entry matching key. It reports false when no
// entry matched.
func (r *PlanRepository) Delete(ctx context.Context, key mealplan.EntryKey) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model MealEntryModel
		result := matchKey(tx, key).
			Order("created_at ASC").
			Order("id ASC").
			First(&model)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}

		result = tx.Delete(&MealEntryModel{}, "id = ?", model.ID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})

	return deleted, err
}

// FindRange returns the user's entries with start <= date <= end, recipes
// preloaded, ordered by date, slot and creation time
func (r *PlanRepository) FindRange(ctx context.Context, userID string, start, end mealplan.Date) ([]mealplan.PlanEntry, error) {
	var models []MealEntryModel

	result := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ? AND plan_date >= ? AND plan_date <= ?", userID, string(start), string(end)).
		Order("plan_date ASC").
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]mealplan.PlanEntry, len(models))
	for i := range models {
		entries[i] = ModelToEntry(&models[i])
	}
	mealplan.SortEntries(entries)

	return entries, nil
}

// FindUsedRecipeIDs returns the recipes the user planned on or after since
func (r *PlanRepository) FindUsedRecipeIDs(ctx context.Context, userID string, since mealplan.Date) (map[uuid.UUID]struct{}, error) {
	var raw []string

	result := r.db.WithContext(ctx).
		Model(&MealEntryModel{}).
		Distinct("recipe_id").
		Where("user_id = ? AND plan_date >= ?", userID, string(since)).
		Pluck("recipe_id", &raw)
	if result.Error != nil {
		return nil, result.Error
	}

	used := make(map[uuid.UUID]struct{}, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("stored recipe id %q: %w", s, err)
		}
		used[id] = struct{}{}
	}

	return used, nil
}

func matchKey(tx *gorm.DB, key mealplan.EntryKey) *gorm.DB {
	return tx.Model(&MealEntryModel{}).Where(
		"user_id = ? AND plan_date = ? AND time_slot = ? AND recipe_id = ?",
		key.UserID, string(key.Date), string(key.Slot), key.RecipeID,
	)
}

func entryExists(tx *gorm.DB, key mealplan.EntryKey) (bool, error) {
	var n int64
	if err := matchKey(tx, key).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

var (
	_ outbound.PlanRepository = (*PlanRepository)(nil)
	_ outbound.UsageHistory   = (*PlanRepository)(nil)
)
