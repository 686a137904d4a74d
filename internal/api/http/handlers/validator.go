package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs struct-tag validation and converts failures into a
// single VALIDATION_FAILED error with per-field messages.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]any, len(ve))
		for _, fe := range ve {
			field := strings.ToLower(fe.Field())
			details[field] = fieldError(fe, field)
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return apperrors.NewValidationError("invalid payload", nil)
}

func fieldError(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
