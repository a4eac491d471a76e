// Package recipe contains the recipe catalog domain: recipes, their
// ingredient lines with typed quantities, and ordered preparation steps.
package recipe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/shared"
)

const maxTitleLength = 200

// Recipe is the catalog aggregate. The planner only ever reads recipes;
// creation goes through NewRecipe so every stored recipe is valid.
type Recipe struct {
	shared.AggregateRoot

	id         uuid.UUID
	title      string
	courseRole CourseRole
	category   Category

	ingredients []IngredientLine
	steps       []Step

	createdAt time.Time
	updatedAt time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(title string, role CourseRole, category Category) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidCourseRole
	}
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	now := time.Now().UTC()
	r := &Recipe{
		id:         uuid.New(),
		title:      title,
		courseRole: role,
		category:   category,
		createdAt:  now,
		updatedAt:  now,
	}

	r.AddEvent(RecipeCreatedEvent{
		RecipeID:   r.id,
		Title:      title,
		CourseRole: role,
		CreatedAt:  now,
	})

	return r, nil
}

// Restore rebuilds a recipe from persisted state without raising events.
func Restore(
	id uuid.UUID,
	title string,
	role CourseRole,
	category Category,
	ingredients []IngredientLine,
	steps []Step,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:          id,
		title:       title,
		courseRole:  role,
		category:    category,
		ingredients: ingredients,
		steps:       steps,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// CourseRole returns whether the recipe is a main or a side
func (r *Recipe) CourseRole() CourseRole {
	return r.courseRole
}

// Category returns the recipe's cuisine category
func (r *Recipe) Category() Category {
	return r.category
}

// Ingredients returns the ingredient lines in authored order
func (r *Recipe) Ingredients() []IngredientLine {
	return r.ingredients
}

// Steps returns the preparation steps ordered by number
func (r *Recipe) Steps() []Step {
	return r.steps
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last changed
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// AddIngredient appends an ingredient line
func (r *Recipe) AddIngredient(line IngredientLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	r.ingredients = append(r.ingredients, line)
	r.updatedAt = time.Now().UTC()
	return nil
}

// AddStep appends a step; its number is assigned from the current position.
func (r *Recipe) AddStep(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrEmptyStep
	}
	r.steps = append(r.steps, Step{
		Number:      len(r.steps) + 1,
		Description: description,
	})
	r.updatedAt = time.Now().UTC()
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
