// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title      string    `gorm:"type:varchar(200);not null;index"`
	CourseRole string    `gorm:"column:course_role;type:varchar(10);not null;index"`
	Category   string    `gorm:"type:varchar(20);not null;default:'other'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relationships
	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps       []StepModel       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientModel is one ingredient line. Amount, Unit and AmountText are
// nullable and decoded into a Quantity.
type IngredientModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	RecipeID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Position   int       `gorm:"not null;default:0"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Amount     *float64
	Unit       *string `gorm:"type:varchar(50)"`
	AmountText *string `gorm:"column:amount_text;type:varchar(100)"`
}

// StepModel is one numbered recipe step
type StepModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	RecipeID    uuid.UUID `gorm:"type:char(36);not null;index"`
	StepNumber  int       `gorm:"column:step_number;not null"`
	Description string    `gorm:"type:text;not null"`
}

// MealEntryModel is one persisted plan entry. Date is stored as YYYY-MM-DD
// so range filters compare lexically.
type MealEntryModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(100);not null;index:idx_meal_entries_user_date,priority:1"`
	Date      string    `gorm:"column:plan_date;type:char(10);not null;index:idx_meal_entries_user_date,priority:2"`
	Slot      string    `gorm:"column:time_slot;type:varchar(10);not null"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Note      *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`

	Recipe *RecipeModel `gorm:"foreignKey:RecipeID"`
}

// AllModels lists the models AutoMigrate manages
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&IngredientModel{},
		&StepModel{},
		&MealEntryModel{},
	}
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealEntryModel
func (m *MealEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (RecipeModel) TableName() string {
	return "recipes"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (StepModel) TableName() string {
	return "recipe_steps"
}

func (MealEntryModel) TableName() string {
	return "meal_entries"
}
