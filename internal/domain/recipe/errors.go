package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired     = errors.New("recipe title is required")
	ErrTitleTooLong      = errors.New("recipe title must not exceed 200 characters")
	ErrInvalidCourseRole = errors.New("course role must be main or side")
	ErrInvalidCategory   = errors.New("category must be japanese, western, chinese or other")

	// Ingredient and step errors
	ErrIngredientNameRequired = errors.New("ingredient name is required")
	ErrNegativeAmount         = errors.New("ingredient amount must not be negative")
	ErrEmptyStep              = errors.New("step description is required")

	ErrRecipeNotFound = errors.New("recipe not found")
)
