package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeCreatedEvent is raised when a new recipe is added to the catalog
type RecipeCreatedEvent struct {
	RecipeID   uuid.UUID
	Title      string
	CourseRole CourseRole
	CreatedAt  time.Time
}

func (e RecipeCreatedEvent) EventName() string {
	return "recipe.created"
}

func (e RecipeCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}
