package utils

import (
	"fmt"

	"wellnest/models"

	"github.com/go-playground/validator/v10"
)

type ValidationService struct {
	validator *validator.Validate
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func NewValidationService() *ValidationService {
	v := validator.New()

	// Register custom validators
	v.RegisterValidation("mood", validateMood)
	v.RegisterValidation("wellness_goal", validateWellnessGoal)
	v.RegisterValidation("activity_type", validateActivityType)
	v.RegisterValidation("content_kind", validateContentKind)

	return &ValidationService{
		validator: v,
	}
}

func (vs *ValidationService) ValidateStruct(s interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := vs.validator.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: vs.getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func (vs *ValidationService) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "mood":
		return "Invalid mood value"
	case "wellness_goal":
		return "Invalid wellness goal"
	case "activity_type":
		return "Invalid activity type"
	case "content_kind":
		return "Invalid content kind"
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func validateMood(fl validator.FieldLevel) bool {
	return StringSliceContains(models.Moods, fl.Field().String())
}

func validateWellnessGoal(fl validator.FieldLevel) bool {
	return StringSliceContains(models.Goals, fl.Field().String())
}

func validateActivityType(fl validator.FieldLevel) bool {
	return StringSliceContains(models.ActivityTypes, fl.Field().String())
}

func validateContentKind(fl validator.FieldLevel) bool {
	return StringSliceContains(models.ContentKinds, fl.Field().String())
}
