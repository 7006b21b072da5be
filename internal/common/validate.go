package common

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared request validator. Field names in reported
// errors follow the json tags so clients see wire-level names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldError describes a single invalid field for API responses.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidateStruct runs struct validation and converts failures into
// field-level details wrapped in a VALIDATION AppError.
func ValidateStruct(v any) *AppError {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return NewValidationError("invalid payload", nil)
	}
	details := make([]FieldError, 0, len(invalid))
	for _, fe := range invalid {
		details = append(details, FieldError{
			Field:  fieldPath(fe.Namespace()),
			Reason: fe.Tag(),
		})
	}
	return NewValidationError("invalid payload", details)
}

func fieldPath(namespace string) string {
	// Strip the root struct name so clients see "items[0].quantity" style paths.
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
