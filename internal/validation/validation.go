package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	return validate.Struct(v)
}

// Var validates a single value, e.g. Var(code, "required,alphanum").
func Var(v any, tag string) error {
	return validate.Var(v, tag)
}

// ProcessValidationErrors: alan adı -> başarısız olan kural.
func ProcessValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errorResponse := make(map[string]string, len(validationErrors))
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// BadRequest turns a validation failure into a 400 naming the offending fields.
func BadRequest(message string, err error) error {
	fields := ProcessValidationErrors(err)
	if len(fields) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, message)
	}
	parts := make([]string, 0, len(fields))
	for field, tag := range fields {
		parts = append(parts, field+" ("+tag+")")
	}
	sort.Strings(parts)
	return fiber.NewError(fiber.StatusBadRequest, message+": "+strings.Join(parts, ", "))
}
