package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError wraps validator output so the error middleware can render each field
type ValidationError struct {
	Details []ValidationErrorDetail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	details := make([]ValidationErrorDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, ValidationErrorDetail{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Details: details}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
