package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// ValidationResult represents the outcome of validating a descriptor.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Err folds the result into a single error, or nil when valid.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ValidateStruct runs the struct tag validator over v.
func ValidateStruct(v any) *ValidationResult {
	result := &ValidationResult{Valid: true}
	err := validate.Struct(v)
	if err == nil {
		return result
	}

	result.Valid = false
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q check", fe.Tag()),
			})
		}
		return result
	}
	result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
	return result
}
