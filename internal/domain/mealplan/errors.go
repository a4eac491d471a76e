package mealplan

import "errors"

var (
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidSlot    = errors.New("slot must be lunch or dinner")
	ErrInvalidRange   = errors.New("end date must not be before start date")
	ErrRangeTooLong   = errors.New("date range is too long")
	ErrNegativeTarget = errors.New("recipe counts must not be negative")
	ErrMissingUser    = errors.New("plan entry requires a user")
	ErrMissingRecipe  = errors.New("plan entry requires a recipe")
)
