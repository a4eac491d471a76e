package security

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/pkg/errors"
	"go.uber.org/zap"
)

// ValidationService validates decoded request schemas
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a validator with the planner's custom tags
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New()

	// report json field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("iso_date", validateISODate)
	_ = validate.RegisterValidation("course_role", validateCourseRole)
	_ = validate.RegisterValidation("category", validateCategory)
	_ = validate.RegisterValidation("slot", validateSlot)
	_ = validate.RegisterValidation("notblank", validateNotBlank)

	return &ValidationService{
		logger:    logger.Named("validation"),
		validator: validate,
	}
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := mealplan.ParseDate(fl.Field().String())
	return err == nil
}

func validateCourseRole(fl validator.FieldLevel) bool {
	return recipe.CourseRole(fl.Field().String()).IsValid()
}

func validateCategory(fl validator.FieldLevel) bool {
	return recipe.Category(fl.Field().String()).IsValid()
}

func validateSlot(fl validator.FieldLevel) bool {
	_, err := mealplan.ParseSlot(fl.Field().String())
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct validates s and converts failures into a validation AppError
func (v *ValidationService) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		v.logger.Warn("Unexpected validator failure", zap.Error(err))
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fieldPath(fe),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return errors.NewValidationErrors(out)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// fieldPath drops the root struct name: "createRecipeRequest.ingredients[0].name"
// becomes "ingredients[0].name"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "iso_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)
	case "course_role":
		return fmt.Sprintf("%s must be main or side", field)
	case "category":
		return fmt.Sprintf("%s must be japanese, western, chinese or other", field)
	case "slot":
		return fmt.Sprintf("%s must be lunch or dinner", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a UUID", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
