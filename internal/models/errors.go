package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by storage, repository and api.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError describes a problem with a single request field
type FieldError struct {
	Field   string
	Rule    string // validation rule that failed, e.g. "required_if"
	Message string
}

// Missing reports whether the field was absent rather than malformed
func (fe FieldError) Missing() bool {
	return strings.HasPrefix(fe.Rule, "required")
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var missing, other []string
	for _, fe := range e.Errors {
		if fe.Missing() {
			missing = append(missing, fe.Field)
		} else {
			other = append(other, fe.Message)
		}
	}

	switch {
	case len(missing) > 0 && len(other) == 0:
		return "Missing required fields: " + strings.Join(missing, ", ")
	case len(missing) > 0:
		return fmt.Sprintf("Missing required fields: %s; %s", strings.Join(missing, ", "), strings.Join(other, "; "))
	case len(other) > 0:
		return strings.Join(other, "; ")
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Rule: rule, Message: message}},
	}
}
