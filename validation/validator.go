package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/esteticaio/api/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{errors: make([]FieldError, 0)}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError listing every field error, or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// Required checks that a string is non-blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Email checks that a non-empty string is an email address.
func (v *Validator) Email(field, value string) *Validator {
	if value == "" {
		return v
	}
	if err := getValidator().Var(value, "email"); err != nil {
		v.AddError(field, "must be a valid email address")
	}
	return v
}

// MinLength checks that a string has at least minLen characters.
func (v *Validator) MinLength(field, value string, minLen int) *Validator {
	if len([]rune(value)) < minLen {
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen))
	}
	return v
}

// MaxLength checks that a string has at most maxLen characters.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if len([]rune(value)) > maxLen {
		v.AddError(field, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return v
}

// Role checks that a non-empty string is a known role.
func (v *Validator) Role(field, value string) *Validator {
	if value != "" && !isRole(value) {
		v.AddError(field, "must be one of: "+strings.Join(Roles, ", "))
	}
	return v
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field.
func Required(field, value string) error {
	if appErr := New().Required(field, value).Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ParseID parses a positive integer identifier such as a path parameter.
func ParseID(field, value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, errors.MissingField(field)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidInput(field, "must be a positive integer")
	}
	return id, nil
}
