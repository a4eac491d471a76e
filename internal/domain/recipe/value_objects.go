package recipe

import "strings"

// CourseRole says which kind of pick a recipe can fill in a meal slot
type CourseRole string

const (
	CourseRoleMain CourseRole = "main"
	CourseRoleSide CourseRole = "side"
)

// IsValid reports whether the role is known
func (c CourseRole) IsValid() bool {
	return c == CourseRoleMain || c == CourseRoleSide
}

// Category represents the cuisine a recipe belongs to
type Category string

const (
	CategoryJapanese Category = "japanese"
	CategoryWestern  Category = "western"
	CategoryChinese  Category = "chinese"
	CategoryOther    Category = "other"
)

// IsValid reports whether the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryJapanese, CategoryWestern, CategoryChinese, CategoryOther:
		return true
	}
	return false
}

// IngredientLine is one ingredient of a recipe as authored
type IngredientLine struct {
	Name     string
	Quantity Quantity
}

// NewIngredientLine trims the name and validates the line
func NewIngredientLine(name string, quantity Quantity) (IngredientLine, error) {
	line := IngredientLine{Name: strings.TrimSpace(name), Quantity: quantity}
	if err := line.Validate(); err != nil {
		return IngredientLine{}, err
	}
	return line, nil
}

// Validate validates the ingredient line
func (i IngredientLine) Validate() error {
	if i.Name == "" {
		return ErrIngredientNameRequired
	}
	if i.Quantity.IsStructured() && i.Quantity.Amount() < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Step is one numbered preparation step
type Step struct {
	Number      int
	Description string
}
