package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// FieldError is a single rule violation on a named form field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field-level validation failures. It never
// reaches the data layer; it only blocks a save.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]FieldError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field, rule, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Rule: rule, Message: message})
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Has reports whether field has at least one violation.
func (v *ValidationErrors) Has(field string) bool {
	for _, e := range v.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// First returns the first message recorded for field.
func (v *ValidationErrors) First(field string) string {
	for _, e := range v.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// ToMap converts validation errors to a map for JSON serialization
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)
	for _, err := range v.Errors {
		field := err.Field
		if field == "" {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}
	return result
}

// Fields returns the names of all fields with violations, sorted.
func (v *ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(v.Errors))
	fields := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		if _, ok := seen[err.Field]; ok {
			continue
		}
		seen[err.Field] = struct{}{}
		fields = append(fields, err.Field)
	}
	sort.Strings(fields)
	return fields
}

// AsAppError converts the collection into an AppError suitable for the HTTP layer.
func (v *ValidationErrors) AsAppError() *AppError {
	details := make(map[string]interface{}, len(v.Errors))
	for field, msgs := range v.ToMap() {
		details[field] = msgs
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    "Validation failed",
		Code:       "FIELD_VALIDATION_ERROR",
		Details:    details,
		Cause:      v,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// AsValidationErrors finds field-level validation failures in err's chain.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var v *ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
