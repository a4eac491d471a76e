// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create stores the recipe, its ingredient lines and steps in one transaction
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients", "Steps").Create(model).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		if len(model.Ingredients) > 0 {
			if err := tx.Create(&model.Ingredients).Error; err != nil {
				return fmt.Errorf("insert ingredients: %w", err)
			}
		}
		if len(model.Steps) > 0 {
			if err := tx.Create(&model.Steps).Error; err != nil {
				return fmt.Errorf("insert steps: %w", err)
			}
		}
		return nil
	})
}

// FindByID finds a recipe by ID with ingredients and steps
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.withLines(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs loads the given recipes with ingredients. Unknown ids are
// skipped; the result follows the order of ids.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []RecipeModel
	if err := r.withLines(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*RecipeModel, len(models))
	for i := range models {
		byID[models[i].ID] = &models[i]
	}

	recipes := make([]*recipe.Recipe, 0, len(models))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			recipes = append(recipes, ModelToRecipe(m))
			delete(byID, id)
		}
	}

	return recipes, nil
}

// List returns every recipe sorted by title, without ingredients or steps
func (r *RecipeRepository) List(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := r.db.WithContext(ctx).
		Order("title ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

// Count returns the catalog size
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&n).Error
	return n, err
}

func (r *RecipeRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		})
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)
